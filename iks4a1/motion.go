package iks4a1

import "fmt"

// Axes are in mg for accelerometers, mdps for gyroscopes and mgauss for
// magnetometers.
type Axes struct {
	X, Y, Z int32
}

type AxesRaw struct {
	X, Y, Z int16
}

type Capabilities struct {
	Acc        bool
	Gyro       bool
	Magneto    bool
	LowPower   bool
	GyroMaxFS  int32
	AccMaxFS   int32
	MagMaxFS   int32
	GyroMaxODR float32
	AccMaxODR  float32
	MagMaxODR  float32
}

func (c Capabilities) functions() Function {
	var f Function
	if c.Gyro {
		f |= MotionGyro
	}
	if c.Acc {
		f |= MotionAccelero
	}
	if c.Magneto {
		f |= MotionMagneto
	}
	return f
}

// MotionComponent is a motion sensor chip. Sensor returns nil for the
// functions the chip lacks.
type MotionComponent interface {
	Init() error
	DeInit() error
	ReadID() (uint8, error)
	Capabilities() Capabilities
	Sensor(f Function) MotionSensor
}

// MotionSensor is one function of a motion sensor chip.
type MotionSensor interface {
	Enable() error
	Disable() error
	Sensitivity() (float32, error)
	OutputDataRate() (float32, error)
	SetOutputDataRate(hz float32) error
	FullScale() (int32, error)
	SetFullScale(fs int32) error
	AxesRaw() (AxesRaw, error)
	Axes() (Axes, error)
}

// Motion describes a motion sensor that can be registered on a board.
// Open connects to the chip; the board checks its ID before use.
type Motion struct {
	Name string
	ID   uint8
	Open func() (MotionComponent, error)
}

type motionSlot struct {
	Motion
	comp  MotionComponent
	funcs Function
}

// AddMotion registers a motion sensor and returns its instance number.
func (b *Board) AddMotion(m Motion) int {
	b.motion = append(b.motion, &motionSlot{Motion: m})
	return len(b.motion) - 1
}

func (b *Board) MotionInstances() int {
	return len(b.motion)
}

func (b *Board) MotionName(instance int) (string, error) {
	if instance < 0 || instance >= len(b.motion) {
		return "", fmt.Errorf("motion instance %d: %w", instance, ErrWrongParam)
	}
	return b.motion[instance].Name, nil
}

// MotionFunctions returns the functions initialized on the instance.
func (b *Board) MotionFunctions(instance int) (Function, error) {
	slot, err := b.motionSlot(instance)
	if err != nil {
		return 0, err
	}
	return slot.funcs, nil
}

// MotionComponent returns the initialized component of the instance, for
// access to chip specific features.
func (b *Board) MotionComponent(instance int) (MotionComponent, error) {
	slot, err := b.motionSlot(instance)
	if err != nil {
		return nil, err
	}
	return slot.comp, nil
}

func (b *Board) motionSlot(instance int) (*motionSlot, error) {
	if instance < 0 || instance >= len(b.motion) {
		return nil, fmt.Errorf("motion instance %d: %w", instance, ErrWrongParam)
	}
	slot := b.motion[instance]
	if slot.comp == nil {
		return nil, fmt.Errorf("motion instance %d: %w", instance, ErrNoInit)
	}
	return slot, nil
}

func (b *Board) motionSensor(instance int, f Function) (MotionSensor, error) {
	slot, err := b.motionSlot(instance)
	if err != nil {
		return nil, err
	}
	if !f.single() || slot.funcs&f == 0 {
		return nil, fmt.Errorf("motion instance %d function %#x: %w", instance, f, ErrWrongParam)
	}
	s := slot.comp.Sensor(f)
	if s == nil {
		return nil, fmt.Errorf("motion instance %d function %#x: %w", instance, f, ErrWrongParam)
	}
	return s, nil
}

// MotionInit probes the instance and enables the requested functions. It
// fails with ErrNoInit when the chip does not answer with its ID and with
// ErrComponentFailure when it lacks one of the requested functions.
func (b *Board) MotionInit(instance int, funcs Function) error {
	if instance < 0 || instance >= len(b.motion) {
		return fmt.Errorf("motion instance %d: %w", instance, ErrWrongParam)
	}
	slot := b.motion[instance]
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
	supported := comp.Capabilities().functions()
	if missing := funcs &^ supported; missing != 0 {
		return failure(fmt.Errorf("%s lacks function %#x", slot.Name, missing))
	}
	if err := comp.Init(); err != nil {
		return failure(fmt.Errorf("init %s: %w", slot.Name, err))
	}

	for f := MotionGyro; f <= MotionMagneto; f <<= 1 {
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

func (b *Board) MotionDeInit(instance int) error {
	slot, err := b.motionSlot(instance)
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

func (b *Board) MotionCapabilities(instance int) (Capabilities, error) {
	slot, err := b.motionSlot(instance)
	if err != nil {
		return Capabilities{}, err
	}
	return slot.comp.Capabilities(), nil
}

func (b *Board) MotionReadID(instance int) (uint8, error) {
	slot, err := b.motionSlot(instance)
	if err != nil {
		return 0, err
	}
	id, err := slot.comp.ReadID()
	if err != nil {
		return 0, failure(err)
	}
	return id, nil
}

func (b *Board) MotionEnable(instance int, f Function) error {
	s, err := b.motionSensor(instance, f)
	if err != nil {
		return err
	}
	if err := s.Enable(); err != nil {
		return failure(err)
	}
	return nil
}

func (b *Board) MotionDisable(instance int, f Function) error {
	s, err := b.motionSensor(instance, f)
	if err != nil {
		return err
	}
	if err := s.Disable(); err != nil {
		return failure(err)
	}
	return nil
}

func (b *Board) MotionAxes(instance int, f Function) (Axes, error) {
	s, err := b.motionSensor(instance, f)
	if err != nil {
		return Axes{}, err
	}
	a, err := s.Axes()
	if err != nil {
		return Axes{}, failure(err)
	}
	return a, nil
}

func (b *Board) MotionAxesRaw(instance int, f Function) (AxesRaw, error) {
	s, err := b.motionSensor(instance, f)
	if err != nil {
		return AxesRaw{}, err
	}
	a, err := s.AxesRaw()
	if err != nil {
		return AxesRaw{}, failure(err)
	}
	return a, nil
}

func (b *Board) MotionSensitivity(instance int, f Function) (float32, error) {
	s, err := b.motionSensor(instance, f)
	if err != nil {
		return 0, err
	}
	v, err := s.Sensitivity()
	if err != nil {
		return 0, failure(err)
	}
	return v, nil
}

func (b *Board) MotionOutputDataRate(instance int, f Function) (float32, error) {
	s, err := b.motionSensor(instance, f)
	if err != nil {
		return 0, err
	}
	v, err := s.OutputDataRate()
	if err != nil {
		return 0, failure(err)
	}
	return v, nil
}

func (b *Board) MotionSetOutputDataRate(instance int, f Function, hz float32) error {
	s, err := b.motionSensor(instance, f)
	if err != nil {
		return err
	}
	if err := s.SetOutputDataRate(hz); err != nil {
		return failure(err)
	}
	return nil
}

func (b *Board) MotionFullScale(instance int, f Function) (int32, error) {
	s, err := b.motionSensor(instance, f)
	if err != nil {
		return 0, err
	}
	v, err := s.FullScale()
	if err != nil {
		return 0, failure(err)
	}
	return v, nil
}

func (b *Board) MotionSetFullScale(instance int, f Function, fs int32) error {
	s, err := b.motionSensor(instance, f)
	if err != nil {
		return err
	}
	if err := s.SetFullScale(fs); err != nil {
		return failure(err)
	}
	return nil
}
