package v1

import (
	"skill-match/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Match    *handler.MatchHandler
	Ranking  *handler.RankingHandler
	Bias     *handler.BiasHandler
	Ontology *handler.OntologyHandler
	Models   *handler.ModelHandler
}

func Register(r fiber.Router, h Handlers) {
	if r == nil {
		return
	}

	if h.Match != nil {
		h.Match.RegisterRoutes(r)
	}
	if h.Ranking != nil {
		h.Ranking.RegisterRoutes(r)
	}
	if h.Bias != nil {
		h.Bias.RegisterRoutes(r)
	}
	if h.Ontology != nil {
		h.Ontology.RegisterRoutes(r)
	}
	if h.Models != nil {
		h.Models.RegisterRoutes(r)
	}
}
