package api

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Aquilabot/SmartPC-API/internal/models"
	"github.com/Aquilabot/SmartPC-API/internal/recommend"
)

const (
	defaultPageLimit        = 100
	maxPageLimit            = 1000
	defaultAlternativeLimit = 5
	maxAlternativeLimit     = 50
)

func oneOf[T any](values []T) validation.Rule {
	in := make([]any, len(values))
	for i, v := range values {
		in[i] = v
	}
	return validation.In(in...)
}

var (
	slotRule    = oneOf(models.SlotTypes)
	segmentRule = oneOf(models.Segments)
	deviceRule  = oneOf(models.DeviceTypes)
	scoreRule   = []validation.Rule{validation.Min(0.0), validation.Max(100.0)}
	budgetRule  = []validation.Rule{validation.NilOrNotEmpty, validation.Min(0.0).Exclusive()}
)

// bindBody decodes the JSON body into req and validates it.
func bindBody(c *fiber.Ctx, req validation.Validatable) error {
	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request payload")
	}
	return req.Validate()
}

// bindQuery decodes the query string into req and validates it. Fields not
// present in the query keep the values req already holds.
func bindQuery(c *fiber.Ctx, req validation.Validatable) error {
	if err := c.QueryParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}
	return req.Validate()
}

type validateRequest struct {
	Components models.SlotMap `json:"components"`
}

func (r *validateRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Components, validation.Each(validation.Length(1, 64))),
	)
}

type scoreRequest struct {
	Components models.SlotMap `json:"components"`
	Segment    models.Segment `json:"segment"`
}

func (r *scoreRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Components, validation.Required, validation.Each(validation.Length(1, 64))),
		validation.Field(&r.Segment, validation.Required, segmentRule),
	)
}

type fpsQuery struct {
	GPU        string `query:"gpu"`
	Game       string `query:"game"`
	Resolution string `query:"resolution"`
	Settings   string `query:"settings"`
}

func (q *fpsQuery) Validate() error {
	return validation.ValidateStruct(q,
		validation.Field(&q.GPU, validation.Required, validation.Length(1, 128)),
		validation.Field(&q.Game, validation.Required, validation.Length(1, 64)),
		validation.Field(&q.Resolution, validation.Required, validation.In("1080p", "1440p", "4k")),
	)
}

type presetQuery struct {
	DeviceType models.DeviceType `query:"device_type"`
	Segment    models.Segment    `query:"segment"`
	Budget     *float64          `query:"budget"`
	Skip       int               `query:"skip"`
	Limit      int               `query:"limit"`
}

func (q *presetQuery) Validate() error {
	return validation.ValidateStruct(q,
		validation.Field(&q.DeviceType, deviceRule),
		validation.Field(&q.Segment, segmentRule),
		validation.Field(&q.Budget, budgetRule...),
		validation.Field(&q.Skip, validation.Min(0)),
		validation.Field(&q.Limit, validation.Required, validation.Min(1), validation.Max(maxPageLimit)),
	)
}

type recommendationQuery struct {
	DeviceType models.DeviceType `query:"device_type"`
	Segment    models.Segment    `query:"segment"`
	Budget     *float64          `query:"budget"`
	Limit      int               `query:"limit"`
}

func (q *recommendationQuery) Validate() error {
	return validation.ValidateStruct(q,
		validation.Field(&q.DeviceType, validation.Required, deviceRule),
		validation.Field(&q.Segment, validation.Required, segmentRule),
		validation.Field(&q.Budget, budgetRule...),
		validation.Field(&q.Limit, validation.Required, validation.Min(1), validation.Max(recommend.MaxLimit)),
	)
}

func (q recommendationQuery) query() recommend.Query {
	return recommend.Query{DeviceType: q.DeviceType, Segment: q.Segment, Budget: q.Budget, Limit: q.Limit}
}

type productQuery struct {
	Type    models.SlotType `query:"type"`
	Segment models.Segment  `query:"segment"`
	InStock *bool           `query:"in_stock"`
	Skip    int             `query:"skip"`
	Limit   int             `query:"limit"`
}

func (q *productQuery) Validate() error {
	return validation.ValidateStruct(q,
		validation.Field(&q.Type, slotRule),
		validation.Field(&q.Segment, segmentRule),
		validation.Field(&q.Skip, validation.Min(0)),
		validation.Field(&q.Limit, validation.Required, validation.Min(1), validation.Max(maxPageLimit)),
	)
}

type alternativesQuery struct {
	Segment models.Segment `query:"segment"`
	Limit   int            `query:"limit"`
}

func (q *alternativesQuery) Validate() error {
	return validation.ValidateStruct(q,
		validation.Field(&q.Segment, segmentRule),
		validation.Field(&q.Limit, validation.Required, validation.Min(1), validation.Max(maxAlternativeLimit)),
	)
}

type productRequest struct {
	Name              string                `json:"name"`
	Type              models.SlotType       `json:"type"`
	Segment           models.Segment        `json:"segment"`
	Price             float64               `json:"price"`
	Currency          string                `json:"currency"`
	Specifications    models.Specifications `json:"specifications"`
	Brand             string                `json:"brand"`
	Model             string                `json:"model"`
	ImageURL          string                `json:"image_url"`
	Description       string                `json:"description"`
	SourceURL         string                `json:"source_url"`
	InStock           *bool                 `json:"in_stock"`
	PerformanceScore  *float64              `json:"performance_score"`
	GamingScore       *float64              `json:"gaming_score"`
	ProductivityScore *float64              `json:"productivity_score"`
}

func (r *productRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Type, validation.Required, slotRule),
		validation.Field(&r.Segment, segmentRule),
		validation.Field(&r.Price, validation.Min(0.0)),
		validation.Field(&r.Currency, validation.Length(3, 3)),
		validation.Field(&r.PerformanceScore, scoreRule...),
		validation.Field(&r.GamingScore, scoreRule...),
		validation.Field(&r.ProductivityScore, scoreRule...),
	)
}

// component builds the catalog record with a fresh id. Products are in stock
// unless the request says otherwise.
func (r *productRequest) component() models.Component {
	c := models.Component{
		ID:                uuid.NewString(),
		Name:              strings.TrimSpace(r.Name),
		Type:              r.Type,
		Segment:           r.Segment,
		Price:             r.Price,
		Currency:          strings.ToUpper(r.Currency),
		Specifications:    r.Specifications,
		Brand:             r.Brand,
		Model:             r.Model,
		ImageURL:          r.ImageURL,
		Description:       r.Description,
		SourceURL:         r.SourceURL,
		InStock:           r.InStock == nil || *r.InStock,
		PerformanceScore:  r.PerformanceScore,
		GamingScore:       r.GamingScore,
		ProductivityScore: r.ProductivityScore,
	}
	if c.Currency == "" {
		c.Currency = models.DefaultCurrency
	}
	if c.Specifications == nil {
		c.Specifications = models.Specifications{}
	}
	return c
}
