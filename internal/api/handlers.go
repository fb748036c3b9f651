package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Aquilabot/SmartPC-API/internal/catalog"
	"github.com/Aquilabot/SmartPC-API/internal/compat"
	"github.com/Aquilabot/SmartPC-API/internal/models"
	"github.com/Aquilabot/SmartPC-API/internal/recommend"
	"github.com/Aquilabot/SmartPC-API/internal/scoring"
)

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":      "ok",
		"service":     s.cfg.AppName,
		"version":     s.cfg.AppVersion,
		"environment": s.cfg.Environment,
	})
}

func (s *Server) validate(c *fiber.Ctx) error {
	var req validateRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	res, err := compat.Validate(c.UserContext(), req.Components, s.store,
		compat.WithUnresolvedHook(s.metrics.RecordUnresolved),
		compat.WithBuildScore(scoring.TwoFactor),
	)
	if err != nil {
		s.metrics.RecordCatalogError("validate")
		return err
	}
	s.metrics.RecordValidation(res)
	return c.JSON(res)
}

type scoreResponse struct {
	scoring.Breakdown
	scoring.Analysis
	TwoFactorScore *float64 `json:"two_factor_score,omitempty"`
	Unresolved     []string `json:"unresolved,omitempty"`
}

func (s *Server) score(c *fiber.Ctx) error {
	var req scoreRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	build, missing, err := catalog.ResolveBuild(c.UserContext(), s.store, req.Components)
	if err != nil {
		s.metrics.RecordCatalogError("score")
		return err
	}
	if len(missing) > 0 {
		s.metrics.RecordUnresolved(missing)
	}

	resp := scoreResponse{
		Breakdown:  s.scorer.Breakdown(build, req.Segment),
		Analysis:   scoring.Analyze(build),
		Unresolved: missing,
	}
	if v, ok := scoring.TwoFactor(build); ok {
		resp.TwoFactorScore = models.Float(v)
	}
	return c.JSON(resp)
}

func (s *Server) fps(c *fiber.Ctx) error {
	var q fpsQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	est, err := s.scorer.Benchmarks().EstimateFPS(q.GPU, q.Game, q.Resolution, q.Settings)
	if err != nil {
		return err
	}
	return c.JSON(est)
}

func (s *Server) fpsGames(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"games": s.scorer.Benchmarks().Games()})
}

func (s *Server) listPresets(c *fiber.Ctx) error {
	q := presetQuery{Limit: defaultPageLimit}
	if err := bindQuery(c, &q); err != nil {
		return err
	}

	presets, err := s.store.ListPresets(c.UserContext(), catalog.PresetFilter{
		DeviceType: q.DeviceType,
		Segment:    q.Segment,
		Budget:     q.Budget,
	})
	if err != nil {
		s.metrics.RecordCatalogError("list_presets")
		return err
	}
	recommend.Order(presets)
	return c.JSON(window(presets, q.Skip, q.Limit))
}

func (s *Server) recommendations(c *fiber.Ctx) error {
	q := recommendationQuery{Limit: s.cfg.RecommendLimit}
	if err := bindQuery(c, &q); err != nil {
		return err
	}

	presets, err := s.store.Query(c.UserContext(), q.DeviceType, q.Segment)
	if err != nil {
		s.metrics.RecordCatalogError("recommend")
		return err
	}
	s.metrics.RecordRecommendation(q.Segment)
	return c.JSON(recommend.Explain(presets, q.query()))
}

func (s *Server) getPreset(c *fiber.Ctx) error {
	p, err := s.store.GetPreset(c.UserContext(), c.Params("id"))
	if errors.Is(err, catalog.ErrNotFound) {
		return notFound("Preset")
	}
	if err != nil {
		return err
	}
	return c.JSON(p)
}

func (s *Server) presetDetails(c *fiber.Ctx) error {
	ctx := c.UserContext()
	p, err := s.store.GetPreset(ctx, c.Params("id"))
	if errors.Is(err, catalog.ErrNotFound) {
		return notFound("Preset")
	}
	if err != nil {
		return err
	}

	build, _, err := catalog.ResolveBuild(ctx, s.store, p.ComponentMap)
	if err != nil {
		s.metrics.RecordCatalogError("preset_details")
		return err
	}

	details := models.PresetDetails{Preset: p, Products: make([]models.Component, 0, len(build))}
	for _, slot := range models.SlotTypes {
		if part, ok := build.Get(slot); ok {
			details.Products = append(details.Products, part)
		}
	}
	return c.JSON(details)
}

func (s *Server) listProducts(c *fiber.Ctx) error {
	q := productQuery{Limit: defaultPageLimit}
	if err := bindQuery(c, &q); err != nil {
		return err
	}

	products, err := s.store.List(c.UserContext(), catalog.ProductFilter{
		Type:    q.Type,
		Segment: q.Segment,
		InStock: q.InStock,
		Offset:  q.Skip,
		Limit:   q.Limit,
	})
	if err != nil {
		s.metrics.RecordCatalogError("list_products")
		return err
	}
	return c.JSON(products)
}

func (s *Server) getProduct(c *fiber.Ctx) error {
	p, err := s.store.Get(c.UserContext(), c.Params("id"))
	if errors.Is(err, catalog.ErrNotFound) {
		return notFound("Product")
	}
	if err != nil {
		return err
	}
	return c.JSON(p)
}

func (s *Server) createProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	p := req.component()
	if err := s.store.Put(c.UserContext(), p); err != nil {
		s.metrics.RecordCatalogError("put_product")
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (s *Server) alternatives(c *fiber.Ctx) error {
	q := alternativesQuery{Limit: defaultAlternativeLimit}
	if err := bindQuery(c, &q); err != nil {
		return err
	}

	alts, err := catalog.Alternatives(c.UserContext(), s.store, c.Params("id"), q.Segment, q.Limit)
	if errors.Is(err, catalog.ErrNotFound) {
		return notFound("Product")
	}
	if err != nil {
		return err
	}
	return c.JSON(alts)
}

func window[T any](items []T, skip, limit int) []T {
	if skip >= len(items) {
		return []T{}
	}
	items = items[skip:]
	if limit < len(items) {
		items = items[:limit]
	}
	return items
}
