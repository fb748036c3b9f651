// Package compat checks whether the components chosen for a build fit
// together electrically and physically.
package compat

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2/log"

	"github.com/Aquilabot/SmartPC-API/internal/catalog"
	"github.com/Aquilabot/SmartPC-API/internal/models"
)

// PSUHeadroom is the factor applied to the total draw to get the recommended
// power supply wattage.
const PSUHeadroom = 1.2

type options struct {
	onUnresolved func(ids []string)
	score        func(build models.Build) (float64, bool)
}

type Option func(*options)

// WithUnresolvedHook is called with the ids that did not resolve, if any.
func WithUnresolvedHook(fn func(ids []string)) Option {
	return func(o *options) {
		o.onUnresolved = fn
	}
}

// WithBuildScore attaches fn's result to the validation as its performance
// score when fn reports one.
func WithBuildScore(fn func(build models.Build) (float64, bool)) Option {
	return func(o *options) {
		o.score = fn
	}
}

// Validate resolves every component of slots in one catalog call and runs the
// compatibility checks over them. Only catalog failures are returned as errors;
// everything wrong with the build itself is reported as an issue.
func Validate(ctx context.Context, slots models.SlotMap, r catalog.Resolver, opts ...Option) (models.ValidationResult, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	if len(slots.IDs()) == 0 {
		return models.ValidationResult{
			IsValid: false,
			Issues: []models.ValidationIssue{{
				ComponentType: models.ComponentGeneral,
				IssueType:     models.IssueMissingComponents,
				Severity:      models.SeverityError,
				Message:       "No components provided",
			}},
		}, nil
	}

	build, missing, err := catalog.ResolveBuild(ctx, r, slots)
	if err != nil {
		return models.ValidationResult{}, fmt.Errorf("validate: %w", err)
	}
	if len(missing) > 0 {
		log.Warnf("validate: %d component id(s) not in catalog: %s", len(missing), strings.Join(missing, ", "))
		if o.onUnresolved != nil {
			o.onUnresolved(missing)
		}
	}

	result := Check(build)
	if o.score != nil {
		if v, ok := o.score(build); ok {
			result.PerformanceScore = models.Float(v)
		}
	}
	return result, nil
}

// Check runs the compatibility checks over an already resolved build.
func Check(build models.Build) models.ValidationResult {
	c := checker{build: build, issues: make([]models.ValidationIssue, 0, 4)}

	c.cpuSocket()
	c.cpuPower()
	c.ramType()
	c.ramSpeed()
	c.gpuPower()
	c.gpuLength()
	c.psuWattage()
	c.coolerSocket()
	c.coolerHeight()

	result := models.ValidationResult{Issues: c.issues}
	result.IsValid = !result.HasErrors()
	if c.total > 0 {
		result.TotalPowerConsumption = models.Float(c.total)
		result.RecommendedPSUWattage = models.Float(c.total * PSUHeadroom)
	}
	return result
}

type checker struct {
	build  models.Build
	issues []models.ValidationIssue
	total  float64
}

func (c *checker) add(slot models.SlotType, kind models.IssueType, sev models.Severity, details map[string]any, format string, args ...any) {
	c.issues = append(c.issues, models.ValidationIssue{
		ComponentType: string(slot),
		IssueType:     kind,
		Severity:      sev,
		Message:       fmt.Sprintf(format, args...),
		Details:       details,
	})
}

func (c *checker) cpu() (models.CPUSpec, bool) {
	p, ok := c.build.Get(models.SlotCPU)
	return p.Specifications.CPU(), ok
}

func (c *checker) motherboard() (models.MotherboardSpec, bool) {
	p, ok := c.build.Get(models.SlotMotherboard)
	return p.Specifications.Motherboard(), ok
}

func (c *checker) ram() (models.RAMSpec, bool) {
	p, ok := c.build.Get(models.SlotRAM)
	return p.Specifications.RAM(), ok
}

func (c *checker) gpu() (models.GPUSpec, bool) {
	p, ok := c.build.Get(models.SlotGPU)
	return p.Specifications.GPU(), ok
}

func (c *checker) psu() (models.PSUSpec, bool) {
	p, ok := c.build.Get(models.SlotPSU)
	return p.Specifications.PSU(), ok
}

func (c *checker) chassis() (models.CaseSpec, bool) {
	p, ok := c.build.Get(models.SlotCase)
	return p.Specifications.Case(), ok
}

func (c *checker) cooler() (models.CoolerSpec, bool) {
	p, ok := c.build.Get(models.SlotCooler)
	return p.Specifications.Cooler(), ok
}

func (c *checker) cpuSocket() {
	cpu, ok := c.cpu()
	if !ok || cpu.Socket == "" {
		return
	}
	mb, ok := c.motherboard()
	if !ok || mb.Socket == "" || cpu.Socket == mb.Socket {
		return
	}
	c.add(models.SlotCPU, models.IssueSocketMismatch, models.SeverityError,
		map[string]any{"cpu_socket": cpu.Socket, "mb_socket": mb.Socket},
		"CPU socket (%s) does not match motherboard socket (%s)", cpu.Socket, mb.Socket)
}

func (c *checker) cpuPower() {
	if cpu, ok := c.cpu(); ok && cpu.TDP.Known {
		c.total += cpu.TDP.Value
	}
}

func (c *checker) ramType() {
	ram, ok := c.ram()
	if !ok || ram.Type == "" {
		return
	}
	mb, ok := c.motherboard()
	if !ok || mb.RAMType == "" || ram.Type == mb.RAMType {
		return
	}
	c.add(models.SlotRAM, models.IssueRAMTypeMismatch, models.SeverityError,
		map[string]any{"ram_type": ram.Type, "mb_ram_type": mb.RAMType},
		"RAM type (%s) does not match motherboard RAM type (%s)", ram.Type, mb.RAMType)
}

func (c *checker) ramSpeed() {
	ram, ok := c.ram()
	if !ok {
		return
	}
	mb, ok := c.motherboard()
	if !ok || !ram.Speed.Exceeds(mb.RAMMaxSpeed) {
		return
	}
	c.add(models.SlotRAM, models.IssueRAMSpeedWarning, models.SeverityWarning,
		map[string]any{"ram_speed": ram.Speed.Value, "mb_max_speed": mb.RAMMaxSpeed.Value},
		"RAM speed (%s MHz) exceeds motherboard max (%s MHz)", num(ram.Speed.Value), num(mb.RAMMaxSpeed.Value))
}

func (c *checker) gpuPower() {
	if gpu, ok := c.gpu(); ok && gpu.PowerConsumption.Known {
		c.total += gpu.PowerConsumption.Value
	}
}

func (c *checker) gpuLength() {
	gpu, ok := c.gpu()
	if !ok {
		return
	}
	chassis, ok := c.chassis()
	if !ok || !gpu.Length.Exceeds(chassis.MaxGPULength) {
		return
	}
	c.add(models.SlotGPU, models.IssueFormFactor, models.SeverityError,
		map[string]any{"gpu_length": gpu.Length.Value, "case_max_gpu_length": chassis.MaxGPULength.Value},
		"GPU length (%s mm) exceeds case max (%s mm)", num(gpu.Length.Value), num(chassis.MaxGPULength.Value))
}

func (c *checker) psuWattage() {
	psu, ok := c.psu()
	if !ok || !psu.Wattage.Known {
		return
	}
	wattage := psu.Wattage.Value
	recommended := c.total * PSUHeadroom
	switch {
	case wattage < c.total:
		c.add(models.SlotPSU, models.IssueInsufficientPower, models.SeverityError,
			map[string]any{"psu_wattage": wattage, "required": c.total},
			"PSU wattage (%sW) is insufficient. Required: ~%.0fW", num(wattage), c.total)
	case wattage < recommended:
		c.add(models.SlotPSU, models.IssueLowPowerMargin, models.SeverityWarning,
			map[string]any{"psu_wattage": wattage, "recommended": recommended},
			"PSU wattage (%sW) is close to recommended (%.0fW)", num(wattage), recommended)
	}
}

func (c *checker) coolerSocket() {
	cooler, ok := c.cooler()
	if !ok || len(cooler.Sockets) == 0 {
		return
	}
	cpu, ok := c.cpu()
	if !ok || cpu.Socket == "" || cooler.Supports(cpu.Socket) {
		return
	}
	c.add(models.SlotCooler, models.IssueSocketMismatch, models.SeverityError,
		map[string]any{"cpu_socket": cpu.Socket, "cooler_sockets": cooler.Sockets},
		"Cooler does not support CPU socket (%s)", cpu.Socket)
}

func (c *checker) coolerHeight() {
	cooler, ok := c.cooler()
	if !ok {
		return
	}
	chassis, ok := c.chassis()
	if !ok || !cooler.Height.Exceeds(chassis.MaxCoolerHeight) {
		return
	}
	c.add(models.SlotCooler, models.IssueFormFactor, models.SeverityError,
		map[string]any{"cooler_height": cooler.Height.Value, "case_max_cooler_height": chassis.MaxCoolerHeight.Value},
		"Cooler height (%s mm) exceeds case max (%s mm)", num(cooler.Height.Value), num(chassis.MaxCoolerHeight.Value))
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
