package recommend_test

import (
	"slices"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/Aquilabot/SmartPC-API/internal/models"
	"github.com/Aquilabot/SmartPC-API/internal/recommend"
)

func preset(id string, priority int, score *float64) models.Preset {
	return models.Preset{
		ID:               id,
		Name:             id,
		DeviceType:       models.DevicePC,
		Segment:          models.SegmentGaming,
		IsActive:         true,
		Priority:         priority,
		PerformanceScore: score,
	}
}

func ids(presets []models.Preset) []string {
	out := make([]string, 0, len(presets))
	for _, p := range presets {
		out = append(out, p.ID)
	}
	return out
}

func budget(v float64) *float64 { return &v }

func TestRecommend(t *testing.T) {
	Convey("Given a preset catalog", t, func() {
		bounded := preset("bounded", 50, models.Float(99))
		bounded.MinBudget = models.Float(5000)
		bounded.MaxBudget = models.Float(8000)
		inactive := preset("inactive", 100, models.Float(100))
		inactive.IsActive = false
		laptop := preset("laptop", 100, nil)
		laptop.DeviceType = models.DeviceLaptop
		office := preset("office", 100, nil)
		office.Segment = models.SegmentBusiness

		catalog := []models.Preset{
			preset("low", 10, models.Float(60)),
			preset("unscored", 20, nil),
			preset("high", 20, models.Float(90)),
			preset("mid", 20, models.Float(70)),
			bounded, inactive, laptop, office,
		}
		q := recommend.Query{DeviceType: models.DevicePC, Segment: models.SegmentGaming, Limit: 10}

		Convey("Presets are ordered by priority then score with unscored last", func() {
			got := slices.Collect(recommend.Recommend(catalog, q))
			So(ids(got), ShouldResemble, []string{"bounded", "high", "mid", "unscored", "low"})
		})

		Convey("Budget bounds filter presets", func() {
			q.Budget = budget(4000)
			So(ids(slices.Collect(recommend.Recommend(catalog, q))), ShouldNotContain, "bounded")
			q.Budget = budget(9000)
			So(ids(slices.Collect(recommend.Recommend(catalog, q))), ShouldNotContain, "bounded")
			q.Budget = budget(5000)
			So(ids(slices.Collect(recommend.Recommend(catalog, q))), ShouldContain, "bounded")
			q.Budget = budget(8000)
			So(ids(slices.Collect(recommend.Recommend(catalog, q))), ShouldContain, "bounded")
		})

		Convey("The default limit is three", func() {
			q.Limit = 0
			So(ids(slices.Collect(recommend.Recommend(catalog, q))), ShouldResemble, []string{"bounded", "high", "mid"})
		})

		Convey("The sequence can be ranged over more than once", func() {
			seq := recommend.Recommend(catalog, q)
			So(ids(slices.Collect(seq)), ShouldResemble, ids(slices.Collect(seq)))
		})

		Convey("Breaking early stops the sequence", func() {
			n := 0
			for range recommend.Recommend(catalog, q) {
				n++
				break
			}
			So(n, ShouldEqual, 1)
		})

		Convey("The input catalog is left untouched", func() {
			before := ids(catalog)
			_ = slices.Collect(recommend.Recommend(catalog, q))
			So(ids(catalog), ShouldResemble, before)
		})

		Convey("Every result matches the query", func() {
			q.Budget = budget(6000)
			got := slices.Collect(recommend.Recommend(catalog, q))
			for _, p := range got {
				So(q.Match(p), ShouldBeTrue)
			}
			So(slices.IsSortedFunc(got, func(a, b models.Preset) int {
				return b.Priority - a.Priority
			}), ShouldBeTrue)
		})

		Convey("An empty catalog yields nothing", func() {
			So(slices.Collect(recommend.Recommend(nil, q)), ShouldBeEmpty)
		})
	})
}

func TestReasoning(t *testing.T) {
	Convey("Given a scored preset", t, func() {
		p := preset("p", 1, models.Float(87.6))
		p.TotalPrice = 4500
		p.Reasoning = "Quiet airflow case"

		Convey("A cheap preset fits the budget with room to spare", func() {
			So(recommend.Reasoning(p, models.SegmentGaming, budget(6000)), ShouldEqual,
				"High performance score: 88 points. Optimized for gaming. Fits the budget with room to spare. Quiet airflow case")
		})

		Convey("A preset close to the budget matches it", func() {
			So(recommend.Reasoning(p, models.SegmentPro, budget(4600)), ShouldEqual,
				"High performance score: 88 points. Optimized for professional work. Matches the budget. Quiet airflow case")
		})

		Convey("Over budget and unscored presets still get a segment reason", func() {
			p.PerformanceScore = nil
			p.Reasoning = ""
			So(recommend.Reasoning(p, models.SegmentHome, budget(1000)), ShouldEqual, "Versatile build for everyday use")
			So(recommend.Reasoning(p, models.SegmentBusiness, nil), ShouldEqual, "Ideal for business use")
		})

		Convey("Explain attaches reasoning to ranked presets", func() {
			recs := recommend.Explain([]models.Preset{p}, recommend.Query{DeviceType: models.DevicePC, Segment: models.SegmentGaming})
			So(recs, ShouldHaveLength, 1)
			So(recs[0].ID, ShouldEqual, "p")
			So(recs[0].Why, ShouldStartWith, "High performance score")
		})
	})
}
