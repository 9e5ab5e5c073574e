package handler

import (
	"skill-match/internal/domain/mlmodel"
	"skill-match/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type modelUsecase interface {
	Status() mlmodel.Info
	Reload() (mlmodel.Info, error)
}

type ModelHandler struct {
	uc modelUsecase
}

func NewModelHandler(uc modelUsecase) *ModelHandler {
	return &ModelHandler{uc: uc}
}

func (h *ModelHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/models")
	grp.Get("", h.Status)
	grp.Post("/reload", h.Reload)
}

func (h *ModelHandler) Status(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, h.uc.Status())
}

func (h *ModelHandler) Reload(c fiber.Ctx) error {
	out, err := h.uc.Reload()
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}
