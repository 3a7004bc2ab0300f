package batch

import (
	"context"
	"fmt"

	"Ductcalc/internal/calc/duct"

	"golang.org/x/sync/errgroup"
)

const maxItems = 100

type Input struct {
	Items []duct.Request `json:"items"`
}

type Item struct {
	Result  *duct.Response `json:"result,omitempty"`
	Error   string         `json:"error,omitempty"`
	Message string         `json:"message,omitempty"`
}

type Result struct {
	Results []Item `json:"results"`
}

// Calculate runs every item independently. A failed item is reported in place
// and does not affect the others.
func Calculate(ctx context.Context, svc *duct.Service, in Input, parallelism int) (Result, error) {
	if len(in.Items) == 0 {
		return Result{}, fmt.Errorf("no items")
	}
	if len(in.Items) > maxItems {
		return Result{}, fmt.Errorf("too many items: %d > %d", len(in.Items), maxItems)
	}

	out := Result{Results: make([]Item, len(in.Items))}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(parallelism, 1))
	for i, req := range in.Items {
		g.Go(func() error {
			res, err := svc.Run(ctx, req)
			if err != nil {
				code, _ := duct.ErrorCode(err)
				out.Results[i] = Item{Error: code, Message: duct.ErrorMessage(req.Lang, err)}
				return nil
			}
			resp := duct.NewResponse(req.Lang, res)
			out.Results[i] = Item{Result: &resp}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	return out, nil
}
