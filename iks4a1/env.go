package iks4a1

import "fmt"

type EnvCapabilities struct {
	Temperature bool
	Pressure    bool
	Humidity    bool
	LowPower    bool
	HumMaxODR   float32
	TempMaxODR  float32
	PressMaxODR float32
}

func (c EnvCapabilities) functions() Function {
	var f Function
	if c.Temperature {
		f |= EnvTemperature
	}
	if c.Pressure {
		f |= EnvPressure
	}
	if c.Humidity {
		f |= EnvHumidity
	}
	return f
}

// EnvComponent is an environmental sensor chip. Sensor returns nil for the
// functions the chip lacks.
type EnvComponent interface {
	Init() error
	DeInit() error
	ReadID() (uint8, error)
	Capabilities() EnvCapabilities
	Sensor(f Function) EnvSensor
}

// EnvSensor is one function of an environmental sensor chip. Values are
// in °C, hPa and %rH.
type EnvSensor interface {
	Enable() error
	Disable() error
	OutputDataRate() (float32, error)
	SetOutputDataRate(hz float32) error
	Value() (float32, error)
}

type Env struct {
	Name string
	ID   uint8
	Open func() (EnvComponent, error)
}

type envSlot struct {
	Env
	comp  EnvComponent
	funcs Function
}

// AddEnv registers an environmental sensor and returns its instance number.
func (b *Board) AddEnv(e Env) int {
	b.env = append(b.env, &envSlot{Env: e})
	return len(b.env) - 1
}

func (b *Board) EnvInstances() int {
	return len(b.env)
}

func (b *Board) EnvName(instance int) (string, error) {
	if instance < 0 || instance >= len(b.env) {
		return "", fmt.Errorf("env instance %d: %w", instance, ErrWrongParam)
	}
	return b.env[instance].Name, nil
}

func (b *Board) EnvFunctions(instance int) (Function, error) {
	slot, err := b.envSlot(instance)
	if err != nil {
		return 0, err
	}
	return slot.funcs, nil
}

func (b *Board) EnvComponent(instance int) (EnvComponent, error) {
	slot, err := b.envSlot(instance)
	if err != nil {
		return nil, err
	}
	return slot.comp, nil
}

func (b *Board) envSlot(instance int) (*envSlot, error) {
	if instance < 0 || instance >= len(b.env) {
		return nil, fmt.Errorf("env instance %d: %w", instance, ErrWrongParam)
	}
	slot := b.env[instance]
	if slot.comp == nil {
		return nil, fmt.Errorf("env instance %d: %w", instance, ErrNoInit)
	}
	return slot, nil
}

func (b *Board) envSensor(instance int, f Function) (EnvSensor, error) {
	slot, err := b.envSlot(instance)
	if err != nil {
		return nil, err
	}
	if !f.single() || slot.funcs&f == 0 {
		return nil, fmt.Errorf("env instance %d function %#x: %w", instance, f, ErrWrongParam)
	}
	s := slot.comp.Sensor(f)
	if s == nil {
		return nil, fmt.Errorf("env instance %d function %#x: %w", instance, f, ErrWrongParam)
	}
	return s, nil
}

// EnvInit probes the instance and enables the requested functions. Errors
// are classed as for MotionInit.
func (b *Board) EnvInit(instance int, funcs Function) error {
	if instance < 0 || instance >= len(b.env) {
		return fmt.Errorf("env instance %d: %w", instance, ErrWrongParam)
	}
	slot := b.env[instance]
	slot.comp = nil
	slot.funcs = 0

	comp, err := slot.Open()
	if err != nil {
		return notFound(fmt.Errorf("open %s: %w", slot.Name, err))
	}
	id, err := comp.ReadID()
	if err != nil {
		return notFound(fmt.Errorf("read %s ID: %w", slot.Name, err))
	}
	if id != slot.ID {
		return notFound(fmt.Errorf("%s ID %#02x, expected %#02x", slot.Name, id, slot.ID))
	}
	if missing := funcs &^ comp.Capabilities().functions(); missing != 0 {
		return failure(fmt.Errorf("%s lacks function %#x", slot.Name, missing))
	}
	if err := comp.Init(); err != nil {
		return failure(fmt.Errorf("init %s: %w", slot.Name, err))
	}

	for f := EnvTemperature; f <= EnvHumidity; f <<= 1 {
		if funcs&f == 0 {
			continue
		}
		s := comp.Sensor(f)
		if s == nil {
			return failure(fmt.Errorf("%s function %#x: no driver", slot.Name, f))
		}
		if err := s.Enable(); err != nil {
			return failure(fmt.Errorf("enable %s function %#x: %w", slot.Name, f, err))
		}
	}

	slot.comp = comp
	slot.funcs = funcs
	return nil
}

func (b *Board) EnvDeInit(instance int) error {
	slot, err := b.envSlot(instance)
	if err != nil {
		return err
	}
	if err := slot.comp.DeInit(); err != nil {
		return failure(err)
	}
	slot.comp = nil
	slot.funcs = 0
	return nil
}

func (b *Board) EnvCapabilities(instance int) (EnvCapabilities, error) {
	slot, err := b.envSlot(instance)
	if err != nil {
		return EnvCapabilities{}, err
	}
	return slot.comp.Capabilities(), nil
}

func (b *Board) EnvReadID(instance int) (uint8, error) {
	slot, err := b.envSlot(instance)
	if err != nil {
		return 0, err
	}
	id, err := slot.comp.ReadID()
	if err != nil {
		return 0, failure(err)
	}
	return id, nil
}

func (b *Board) EnvEnable(instance int, f Function) error {
	s, err := b.envSensor(instance, f)
	if err != nil {
		return err
	}
	if err := s.Enable(); err != nil {
		return failure(err)
	}
	return nil
}

func (b *Board) EnvDisable(instance int, f Function) error {
	s, err := b.envSensor(instance, f)
	if err != nil {
		return err
	}
	if err := s.Disable(); err != nil {
		return failure(err)
	}
	return nil
}

func (b *Board) EnvOutputDataRate(instance int, f Function) (float32, error) {
	s, err := b.envSensor(instance, f)
	if err != nil {
		return 0, err
	}
	v, err := s.OutputDataRate()
	if err != nil {
		return 0, failure(err)
	}
	return v, nil
}

func (b *Board) EnvSetOutputDataRate(instance int, f Function, hz float32) error {
	s, err := b.envSensor(instance, f)
	if err != nil {
		return err
	}
	if err := s.SetOutputDataRate(hz); err != nil {
		return failure(err)
	}
	return nil
}

func (b *Board) EnvValue(instance int, f Function) (float32, error) {
	s, err := b.envSensor(instance, f)
	if err != nil {
		return 0, err
	}
	v, err := s.Value()
	if err != nil {
		return 0, failure(err)
	}
	return v, nil
}
