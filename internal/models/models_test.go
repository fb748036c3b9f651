package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in       string
		value    float64
		currency string
	}{
		{"739,00 zł", 739, "PLN"},
		{"$129.99", 129.99, "USD"},
		{"+€5.00", 5, "EUR"},
		{"£ 60", 60, "GBP"},
		{"", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			value, currency, err := ParsePrice(tt.in)
			require.NoError(t, err)
			assert.InDelta(t, tt.value, value, 0.001)
			assert.Equal(t, tt.currency, currency)
		})
	}

	_, _, err := ParsePrice("n/a")
	assert.Error(t, err)
}

func TestCheapest(t *testing.T) {
	offers := PartOffers{Vendors: []Vendor{
		{Name: "x-kom", InStock: true, Price: Price{Total: 799}},
		{Name: "Komputronik", InStock: false, Price: Price{Total: 699}},
		{Name: "Allegro", InStock: true, Price: Price{Total: 0}},
		{Name: "Morele", InStock: true, Price: Price{Total: 739}},
	}}

	best, ok := offers.Cheapest()
	require.True(t, ok)
	assert.Equal(t, "Morele", best.Name)

	_, ok = PartOffers{Vendors: []Vendor{{Name: "Komputronik", Price: Price{Total: 699}}}}.Cheapest()
	assert.False(t, ok)
}

func TestSlotMapIDs(t *testing.T) {
	m := SlotMap{
		SlotGPU:           "gpu-1",
		SlotCPU:           "cpu-1",
		SlotPeripheral:    " ",
		SlotType("mouse"): "cpu-1",
	}
	assert.Equal(t, []string{"cpu-1", "gpu-1"}, m.IDs())
}

func TestSpecificationsDecode(t *testing.T) {
	t.Run("cpu with polish keys", func(t *testing.T) {
		cpu := Specifications{"Gniazdo": "AM5", "TDP": "65 W", "Rdzenie": 6}.Decode(SlotCPU).(CPUSpec)
		assert.Equal(t, "AM5", cpu.Socket)
		assert.Equal(t, Known(65), cpu.TDP)
		assert.Equal(t, Known(6), cpu.Cores)
		assert.False(t, cpu.BoostClock.Known)
	})

	t.Run("units are normalized", func(t *testing.T) {
		st := Specifications{"capacity": "2 TB"}.Storage()
		assert.Equal(t, Known(2000), st.Capacity)
		assert.Equal(t, Known(2), st.CapacityTB())

		gpu := Specifications{"length": "32 cm", "vram": "8192 MB"}.GPU()
		assert.Equal(t, Known(320), gpu.Length)
		assert.InDelta(t, 8.192, gpu.VRAM.Value, 0.0001)

		ram := Specifications{"capacity": "2x16 GB"}.RAM()
		assert.Equal(t, Known(32), ram.Capacity)
	})

	t.Run("cooler sockets", func(t *testing.T) {
		fromText := Specifications{"socket": "AM4, AM5 / LGA1700"}.Cooler()
		assert.True(t, fromText.Supports("LGA1700"))
		assert.False(t, fromText.Supports("lga1700"))

		fromList := Specifications{"sockets": []any{"AM5", " ", 7}}.Cooler()
		assert.Equal(t, []string{"AM5"}, fromList.Sockets)
		assert.False(t, fromList.Supports("AM4"))
	})

	t.Run("psu modular flag", func(t *testing.T) {
		assert.True(t, Specifications{"modular": "true"}.PSU().Modular)
		assert.False(t, Specifications{"modular": "semi"}.PSU().Modular)
	})

	t.Run("slots without attributes", func(t *testing.T) {
		assert.Equal(t, GenericSpec{Type: SlotPeripheral}, Specifications{}.Decode(SlotPeripheral))
	})
}

func TestMeasure(t *testing.T) {
	assert.True(t, Known(330).Exceeds(Known(320)))
	assert.False(t, Known(330).Exceeds(Measure{}))
	assert.Equal(t, 450.0, Measure{}.Or(450))
}

func TestPresetInBudget(t *testing.T) {
	p := Preset{MinBudget: Float(4000), MaxBudget: Float(6000)}
	assert.True(t, p.InBudget(5000))
	assert.False(t, p.InBudget(3999))
	assert.False(t, p.InBudget(6001))
	assert.True(t, Preset{}.InBudget(100))
}
