package web

import (
	"net/http"
	"strconv"

	"github.com/chainmart/chainmart/internal/domain"
)

// itemJSON is the wire representation of an item. Ids travel as strings and
// optional fields are omitted when unset.
type itemJSON struct {
	ID              string `json:"id"`
	Category        string `json:"category"`
	Name            string `json:"name"`
	Price           string `json:"price"`
	Description     string `json:"description"`
	Image           string `json:"image"`
	Seller          string `json:"seller,omitempty"`
	Sold            bool   `json:"sold"`
	Buyer           string `json:"buyer,omitempty"`
	TransactionHash string `json:"transactionHash,omitempty"`
}

func toItemJSON(item *domain.Item) itemJSON {
	return itemJSON{
		ID:              strconv.FormatInt(item.ID, 10),
		Category:        item.Category,
		Name:            item.Name,
		Price:           item.Price,
		Description:     item.Description,
		Image:           item.Image,
		Seller:          item.Seller,
		Sold:            item.Sold,
		Buyer:           item.Buyer,
		TransactionHash: item.TransactionHash,
	}
}

func toItemListJSON(items []*domain.Item) []itemJSON {
	out := make([]itemJSON, 0, len(items))
	for _, item := range items {
		out = append(out, toItemJSON(item))
	}
	return out
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.service.ListItems(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"items": toItemListJSON(items)})
}

func (s *Server) handleListItemsByCategory(w http.ResponseWriter, r *http.Request) {
	items, err := s.service.ListItemsByCategory(r.Context(), r.PathValue("category"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"items": toItemListJSON(items)})
}

func (s *Server) handleGetItemDetail(w http.ResponseWriter, r *http.Request) {
	itemID, err := parseItemID(r.PathValue("itemID"))
	if err != nil {
		s.respondError(w, r, domain.ErrNotFound)
		return
	}

	item, err := s.service.GetItem(r.Context(), itemID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if item == nil {
		s.respondError(w, r, domain.ErrNotFound)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{"item": toItemJSON(item)})
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Category    string `json:"category"`
		Name        string `json:"name"`
		Price       string `json:"price"`
		Description string `json:"description"`
		Image       string `json:"image"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	item, err := s.service.CreateItem(r.Context(), req.Category, req.Name, req.Price, req.Description, req.Image)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]any{"item": toItemJSON(item)})
}

// parseItemID converts a wire item id to its storage form. Non-numeric ids
// cannot exist in the catalog, so callers treat a parse failure as not found.
func parseItemID(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}
