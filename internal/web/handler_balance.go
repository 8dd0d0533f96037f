package web

import (
	"fmt"
	"net/http"

	"github.com/chainmart/chainmart/internal/domain"
)

func (s *Server) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("address")
	if address == "" {
		s.respondError(w, r, domain.NewValidationError("address"))
		return
	}

	balance, err := s.service.Balance(r.Context(), address)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"balance": fmt.Sprintf("%.2f", balance)})
}
