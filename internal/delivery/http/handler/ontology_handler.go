package handler

import (
	"skill-match/internal/domain/ontology"
	"skill-match/internal/pkg/response"
	"skill-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ontologyUsecase interface {
	Stats() ontology.Stats
	Related(skill string, depth int) (usecase.RelatedSkills, error)
	Similarity(a, b string) (usecase.SkillSimilarity, error)
	Skill(name string) (usecase.SkillDetail, error)
	Definition() ontology.Definition
}

type OntologyHandler struct {
	uc ontologyUsecase
}

func NewOntologyHandler(uc ontologyUsecase) *OntologyHandler {
	return &OntologyHandler{uc: uc}
}

func (h *OntologyHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/ontology")
	grp.Get("/stats", h.Stats)
	grp.Get("/similarity", h.Similarity)
	grp.Get("/definition", h.Definition)
	grp.Get("/skills/:skill", h.Skill)
	grp.Get("/skills/:skill/related", h.Related)
}

func (h *OntologyHandler) Stats(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, h.uc.Stats())
}

func (h *OntologyHandler) Similarity(c fiber.Ctx) error {
	out, err := h.uc.Similarity(c.Query("a"), c.Query("b"))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *OntologyHandler) Definition(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, h.uc.Definition())
}

func (h *OntologyHandler) Skill(c fiber.Ctx) error {
	out, err := h.uc.Skill(c.Params("skill"))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *OntologyHandler) Related(c fiber.Ctx) error {
	depth, err := queryInt(c, "depth", 0)
	if err != nil {
		return err
	}
	out, err := h.uc.Related(c.Params("skill"), depth)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}
