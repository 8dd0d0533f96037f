package web

import (
	"fmt"
	"net/http"

	"github.com/chainmart/chainmart/internal/domain"
)

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemID  string `json:"itemId"`
		Price   string `json:"price"`
		Address string `json:"address"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	switch {
	case req.ItemID == "":
		s.respondError(w, r, domain.NewValidationError("itemId"))
		return
	case req.Price == "":
		s.respondError(w, r, domain.NewValidationError("price"))
		return
	case req.Address == "":
		s.respondError(w, r, domain.NewValidationError("address"))
		return
	}

	itemID, err := parseItemID(req.ItemID)
	if err != nil {
		s.respondError(w, r, domain.ErrNotFound)
		return
	}

	settlement, err := s.service.Purchase(r.Context(), itemID, req.Price, req.Address)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"item":       toItemJSON(settlement.Item),
		"newBalance": fmt.Sprintf("%.2f", settlement.NewBalance),
		"message":    "Item purchased successfully",
	})
}

func (s *Server) handlePurchaseComplete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemID          string `json:"itemId"`
		TransactionHash string `json:"transactionHash"`
		Buyer           string `json:"buyer"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	switch {
	case req.ItemID == "":
		s.respondError(w, r, domain.NewValidationError("itemId"))
		return
	case req.TransactionHash == "":
		s.respondError(w, r, domain.NewValidationError("transactionHash"))
		return
	case req.Buyer == "":
		s.respondError(w, r, domain.NewValidationError("buyer"))
		return
	}

	itemID, err := parseItemID(req.ItemID)
	if err != nil {
		s.respondError(w, r, domain.ErrNotFound)
		return
	}

	item, err := s.service.CompletePurchase(r.Context(), itemID, req.TransactionHash, req.Buyer)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"item":    toItemJSON(item),
		"message": "Item purchase recorded successfully",
	})
}
