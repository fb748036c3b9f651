package models

import (
	"encoding/json"
	"slices"
	"strconv"
	"strings"

	"github.com/Aquilabot/SmartPC-API/internal/utils"
)

// Specifications is the attribute bag stored with a component. Keys depend on
// the slot type; use Decode to get the typed view.
type Specifications map[string]any

// Measure is an optional numeric attribute. Known is false when the value was
// absent or could not be read as a number.
type Measure struct {
	Value float64
	Known bool
}

func Known(v float64) Measure {
	return Measure{Value: v, Known: true}
}

// Exceeds reports whether both sides are known and m is larger than limit.
func (m Measure) Exceeds(limit Measure) bool {
	return m.Known && limit.Known && m.Value > limit.Value
}

func (m Measure) Or(fallback float64) float64 {
	if !m.Known {
		return fallback
	}
	return m.Value
}

func (s Specifications) raw(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := s[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// Text returns the first string-like value stored under any of keys.
func (s Specifications) Text(keys ...string) string {
	v, ok := s.raw(keys...)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

// Quantity returns the first numeric value stored under any of keys, with the
// unit it was written in. Booleans and free text are not numbers.
func (s Specifications) Quantity(keys ...string) (utils.Quantity, bool) {
	v, ok := s.raw(keys...)
	if !ok {
		return utils.Quantity{}, false
	}
	switch t := v.(type) {
	case float64:
		return utils.Quantity{Value: t}, true
	case float32:
		return utils.Quantity{Value: float64(t)}, true
	case int:
		return utils.Quantity{Value: float64(t)}, true
	case int64:
		return utils.Quantity{Value: float64(t)}, true
	case int32:
		return utils.Quantity{Value: float64(t)}, true
	case uint:
		return utils.Quantity{Value: float64(t)}, true
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return utils.Quantity{}, false
		}
		return utils.Quantity{Value: f}, true
	case string:
		return utils.ParseQuantity(t)
	}
	return utils.Quantity{}, false
}

// Number is Quantity without the unit.
func (s Specifications) Number(keys ...string) Measure {
	q, ok := s.Quantity(keys...)
	if !ok {
		return Measure{}
	}
	return Known(q.Value)
}

// List returns a string set stored either as a single (possibly delimited)
// string or as a list of strings.
func (s Specifications) List(keys ...string) []string {
	v, ok := s.raw(keys...)
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case string:
		return utils.SplitList(t)
	case []string:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if str, ok := item.(string); ok && strings.TrimSpace(str) != "" {
				out = append(out, strings.TrimSpace(str))
			}
		}
		return out
	}
	return nil
}

func (s Specifications) Flag(keys ...string) (bool, bool) {
	v, ok := s.raw(keys...)
	if !ok {
		return false, false
	}
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return b, err == nil
	}
	return false, false
}

// Spec is one of the typed specification variants below.
type Spec interface {
	Slot() SlotType
}

type CPUSpec struct {
	Socket     string
	Cores      Measure
	Threads    Measure
	BaseClock  Measure // GHz
	BoostClock Measure // GHz
	TDP        Measure // W
}

type MotherboardSpec struct {
	Socket      string
	Chipset     string
	FormFactor  string
	RAMType     string
	RAMMaxSpeed Measure // MHz
}

type GPUSpec struct {
	Chipset          string
	MemoryType       string
	VRAM             Measure // GB
	PowerConsumption Measure // W
	Length           Measure // mm
}

type RAMSpec struct {
	Type     string
	Speed    Measure // MHz
	Capacity Measure // GB
	Voltage  Measure
	Latency  Measure
}

type StorageSpec struct {
	Type      string
	Interface string
	Capacity  Measure // GB
}

// CapacityTB reports the capacity in decimal terabytes.
func (s StorageSpec) CapacityTB() Measure {
	if !s.Capacity.Known {
		return Measure{}
	}
	return Known(s.Capacity.Value / 1000)
}

type PSUSpec struct {
	Wattage    Measure
	Efficiency string
	Modular    bool
}

type CaseSpec struct {
	FormFactor      string
	MaxGPULength    Measure // mm
	MaxCoolerHeight Measure // mm
}

type CoolerSpec struct {
	Sockets []string
	Height  Measure // mm
}

// Supports reports whether socket is in the cooler's supported set. Sockets
// compare exactly, as in the CPU and motherboard check.
func (c CoolerSpec) Supports(socket string) bool {
	return slices.Contains(c.Sockets, socket)
}

// GenericSpec is used for slots without compatibility attributes.
type GenericSpec struct {
	Type SlotType
}

func (CPUSpec) Slot() SlotType         { return SlotCPU }
func (MotherboardSpec) Slot() SlotType { return SlotMotherboard }
func (GPUSpec) Slot() SlotType         { return SlotGPU }
func (RAMSpec) Slot() SlotType         { return SlotRAM }
func (StorageSpec) Slot() SlotType     { return SlotStorage }
func (PSUSpec) Slot() SlotType         { return SlotPSU }
func (CaseSpec) Slot() SlotType        { return SlotCase }
func (CoolerSpec) Slot() SlotType      { return SlotCooler }
func (g GenericSpec) Slot() SlotType   { return g.Type }

// Decode reads the attribute bag as the variant for slot.
func (s Specifications) Decode(slot SlotType) Spec {
	switch slot {
	case SlotCPU:
		return s.CPU()
	case SlotMotherboard:
		return s.Motherboard()
	case SlotGPU:
		return s.GPU()
	case SlotRAM:
		return s.RAM()
	case SlotStorage:
		return s.Storage()
	case SlotPSU:
		return s.PSU()
	case SlotCase:
		return s.Case()
	case SlotCooler:
		return s.Cooler()
	}
	return GenericSpec{Type: slot}
}

func (s Specifications) CPU() CPUSpec {
	return CPUSpec{
		Socket:     s.Text("socket", "Gniazdo"),
		Cores:      s.Number("cores", "Rdzenie"),
		Threads:    s.Number("threads", "Wątki"),
		BaseClock:  s.Number("base_clock", "Taktowanie bazowe"),
		BoostClock: s.Number("boost_clock", "Taktowanie boost"),
		TDP:        s.Number("tdp", "TDP"),
	}
}

func (s Specifications) Motherboard() MotherboardSpec {
	return MotherboardSpec{
		Socket:      s.Text("socket", "Gniazdo"),
		Chipset:     s.Text("chipset", "Chipset"),
		FormFactor:  s.Text("form_factor", "Format"),
		RAMType:     s.Text("ram_type", "Typ pamięci"),
		RAMMaxSpeed: s.Number("ram_max_speed"),
	}
}

func (s Specifications) GPU() GPUSpec {
	return GPUSpec{
		Chipset:          s.Text("chipset"),
		MemoryType:       s.Text("memory_type"),
		VRAM:             s.capacityGB("vram", "VRAM"),
		PowerConsumption: s.Number("power_consumption"),
		Length:           s.lengthMM("length", "Długość"),
	}
}

func (s Specifications) RAM() RAMSpec {
	return RAMSpec{
		Type:     s.Text("type", "Typ"),
		Speed:    s.Number("speed", "Taktowanie"),
		Capacity: s.capacityGB("capacity", "Pojemność"),
		Voltage:  s.Number("voltage"),
		Latency:  s.Number("latency"),
	}
}

func (s Specifications) Storage() StorageSpec {
	return StorageSpec{
		Type:      s.Text("type", "Typ"),
		Interface: s.Text("interface", "Interfejs"),
		Capacity:  s.capacityGB("capacity", "Pojemność"),
	}
}

func (s Specifications) PSU() PSUSpec {
	modular, _ := s.Flag("modular")
	return PSUSpec{
		Wattage:    s.Number("wattage", "Moc"),
		Efficiency: s.Text("efficiency", "Certyfikat"),
		Modular:    modular,
	}
}

func (s Specifications) Case() CaseSpec {
	return CaseSpec{
		FormFactor:      s.Text("form_factor"),
		MaxGPULength:    s.lengthMM("max_gpu_length"),
		MaxCoolerHeight: s.lengthMM("max_cooler_height"),
	}
}

func (s Specifications) Cooler() CoolerSpec {
	return CoolerSpec{
		Sockets: s.List("socket", "sockets", "Gniazdo"),
		Height:  s.lengthMM("height", "Wysokość"),
	}
}

// capacityGB normalizes MB/GB/TB to gigabytes; bare numbers are gigabytes.
func (s Specifications) capacityGB(keys ...string) Measure {
	q, ok := s.Quantity(keys...)
	if !ok {
		return Measure{}
	}
	switch q.Unit {
	case "", "gb", "g":
		return Known(q.Value)
	case "tb", "t":
		return Known(q.Value * 1000)
	case "mb":
		return Known(q.Value / 1000)
	}
	return Measure{}
}

// lengthMM normalizes cm/mm to millimetres; bare numbers are millimetres.
func (s Specifications) lengthMM(keys ...string) Measure {
	q, ok := s.Quantity(keys...)
	if !ok {
		return Measure{}
	}
	switch q.Unit {
	case "", "mm":
		return Known(q.Value)
	case "cm":
		return Known(q.Value * 10)
	}
	return Measure{}
}
