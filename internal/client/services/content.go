package services

import (
	"context"
	"net/http"

	"github.com/citycarcenters/fleetconsole/internal/client/api"
)

// ContentService posts the operator-managed site content. Nothing here is
// cached client-side, so these are plain dispatches.
type ContentService struct {
	api api.Dispatcher
}

func NewContentService(d api.Dispatcher) *ContentService {
	return &ContentService{api: d}
}

type faqRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type policyRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (s *ContentService) AddFAQ(ctx context.Context, question, answer string) error {
	return s.api.Do(ctx, http.MethodPost, "/faqs", faqRequest{Question: question, Answer: answer}, nil)
}

func (s *ContentService) SetPolicy(ctx context.Context, title, description string) error {
	return s.api.Do(ctx, http.MethodPost, "/policy", policyRequest{Title: title, Description: description}, nil)
}
