// Package study turns an uploaded document into a processed study record
// and serves the document, conversation and quiz endpoints.
package study

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/docubrain/backend/internal/ai"
	"github.com/docubrain/backend/internal/docerr"
	"github.com/docubrain/backend/internal/models"
)

// Processor runs the two AI operations over one document and joins the
// results into a single ProcessedDocument.
type Processor struct {
	gateway ai.Gateway
}

func NewProcessor(gateway ai.Gateway) *Processor {
	return &Processor{gateway: gateway}
}

// Process dispatches Summarize and GenerateChallenges concurrently and
// assembles the result. If either call fails the whole operation fails; no
// partial document is ever produced. There is no retry.
func (p *Processor) Process(ctx context.Context, name, content string) (*models.ProcessedDocument, error) {
	var (
		summary    string
		challenges []models.Challenge
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = p.gateway.Summarize(gctx, content)
		return err
	})
	g.Go(func() error {
		var err error
		challenges, err = p.gateway.GenerateChallenges(gctx, content, ai.DefaultNumQuestions)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", docerr.ErrProcessing, err)
	}

	return &models.ProcessedDocument{
		Name:       name,
		Content:    content,
		Summary:    summary,
		Challenges: challenges,
	}, nil
}
