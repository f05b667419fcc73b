package surface

// HeadlessToplevel is an in-process Toplevel used by the check command and
// the test suites. It records the last requested state instead of talking
// to a client.
type HeadlessToplevel struct {
	SurfaceKind Kind

	TitleText string
	AppIDText string

	// Legacy attributes; ignored for native surfaces.
	InstanceText  string
	RoleText      string
	ID            uint32
	Props         map[string]string
	Urgent        bool
	TransientFlag bool

	W, H int

	X, Y                 int
	LastConfigureW       int
	LastConfigureH       int
	MaximizedH           bool
	MaximizedV           bool
	Minimized            bool
	Fullscreen           bool
	Activated            bool
	CloseRequested       bool
	KillRequested        bool
	ConfiguresScheduled  int
	AcceptsSizeImmediate bool
}

// NewHeadless returns a mapped-ready toplevel of the given kind and size.
func NewHeadless(kind Kind, w, h int) *HeadlessToplevel {
	return &HeadlessToplevel{
		SurfaceKind:          kind,
		W:                    w,
		H:                    h,
		Props:                map[string]string{},
		AcceptsSizeImmediate: true,
	}
}

func (s *HeadlessToplevel) Kind() Kind            { return s.SurfaceKind }
func (s *HeadlessToplevel) Title() string         { return s.TitleText }
func (s *HeadlessToplevel) AppID() string         { return s.AppIDText }
func (s *HeadlessToplevel) CurrentSize() (int, int) { return s.W, s.H }

func (s *HeadlessToplevel) SetSize(w, h int) {
	s.LastConfigureW, s.LastConfigureH = w, h
	if s.AcceptsSizeImmediate {
		s.W, s.H = w, h
	}
}

func (s *HeadlessToplevel) Configure(x, y, w, h int) {
	s.X, s.Y = x, y
	s.SetSize(w, h)
}

func (s *HeadlessToplevel) ScheduleConfigure() { s.ConfiguresScheduled++ }

func (s *HeadlessToplevel) SetMaximized(h, v bool) { s.MaximizedH, s.MaximizedV = h, v }
func (s *HeadlessToplevel) SetMinimized(m bool)    { s.Minimized = m }
func (s *HeadlessToplevel) SetFullscreen(f bool)   { s.Fullscreen = f }
func (s *HeadlessToplevel) SetActivated(a bool)    { s.Activated = a }
func (s *HeadlessToplevel) SendClose()             { s.CloseRequested = true }
func (s *HeadlessToplevel) Kill()                  { s.KillRequested = true }

func (s *HeadlessToplevel) Instance() string { return s.InstanceText }
func (s *HeadlessToplevel) Role() string     { return s.RoleText }
func (s *HeadlessToplevel) WindowID() uint32 { return s.ID }

func (s *HeadlessToplevel) Property(name string) (string, bool) {
	v, ok := s.Props[name]
	return v, ok
}

func (s *HeadlessToplevel) SetProperty(name, value string) {
	if s.Props == nil {
		s.Props = map[string]string{}
	}
	s.Props[name] = value
}

func (s *HeadlessToplevel) DemandsAttention() bool { return s.Urgent }
func (s *HeadlessToplevel) Transient() bool        { return s.TransientFlag }

// HeadlessForeign records foreign-toplevel announcements.
type HeadlessForeign struct {
	Title      string
	AppID      string
	Maximized  bool
	Minimized  bool
	Fullscreen bool
	Activated  bool
	Output     string
}

func (f *HeadlessForeign) SetTitle(t string)       { f.Title = t }
func (f *HeadlessForeign) SetAppID(a string)       { f.AppID = a }
func (f *HeadlessForeign) SetMaximized(m bool)     { f.Maximized = m }
func (f *HeadlessForeign) SetMinimized(m bool)     { f.Minimized = m }
func (f *HeadlessForeign) SetFullscreen(fs bool)   { f.Fullscreen = fs }
func (f *HeadlessForeign) SetActivated(a bool)     { f.Activated = a }
func (f *HeadlessForeign) OutputEnter(name string) { f.Output = name }
