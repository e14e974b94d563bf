package display

// MockDriver records frames and backlight switches for tests.
type MockDriver struct {
	InitErr    error
	PresentErr error

	Frames    [][]Color
	Backlight []bool
	Inited    bool
	Closed    bool
}

// compile-time interface compliance test
var _ Driver = new(MockDriver)

func (m *MockDriver) Init() error {
	if m.InitErr != nil {
		return m.InitErr
	}
	m.Inited = true
	return nil
}

func (m *MockDriver) Present(c *Canvas) error {
	if m.PresentErr != nil {
		return m.PresentErr
	}
	frame := make([]Color, len(c.Pix()))
	copy(frame, c.Pix())
	m.Frames = append(m.Frames, frame)
	return nil
}

func (m *MockDriver) SetBacklight(on bool) error {
	m.Backlight = append(m.Backlight, on)
	return nil
}

func (m *MockDriver) Close() error {
	m.Closed = true
	return nil
}

// LastFrame returns nil before the first Present.
func (m *MockDriver) LastFrame() []Color {
	if len(m.Frames) == 0 {
		return nil
	}
	return m.Frames[len(m.Frames)-1]
}

func NewMock(width, height int) (*Display, *MockDriver) {
	m := &MockDriver{}
	d, err := New(m, width, height, nil)
	if err != nil {
		panic(err)
	}
	return d, m
}
