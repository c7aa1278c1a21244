package inbound

import (
	"context"

	"github.com/shandysiswandi/securelogin/internal/greeting/usecase"
	"github.com/shandysiswandi/securelogin/internal/pkg/router"
)

type uc interface {
	Greet(ctx context.Context, in usecase.GreetInput) (*usecase.GreetOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GETRaw("/api", end.Greet())
	r.GETRaw("/api/*rest", end.Greet())
}
