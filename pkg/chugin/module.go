// Package chugin describes chugin classes in Go and registers them with a
// ChucK host.
//
// A Class[T] lists the operations a class supports: the constructor that
// builds the native *T, an optional tick, and member functions. Registering
// it declares a private data member, then generates the four kinds of host
// callbacks around the offset the host returned for it. A Module collects
// classes and implements the two entry points the host calls on load.
package chugin

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/justyntemme/chuckgo/pkg/chuck"
	"github.com/justyntemme/chuckgo/pkg/framework/debug"
	"github.com/justyntemme/chuckgo/pkg/query"
)

// Module is a set of classes registered together
type Module struct {
	mu      sync.RWMutex
	name    string
	classes []Registrant
	logger  *debug.Logger
}

// NewModule creates a module. The name is forwarded to the host's setname.
func NewModule(name string, classes ...Registrant) *Module {
	return &Module{
		name:    name,
		classes: classes,
		logger:  debug.Default(),
	}
}

// Add appends classes to the module
func (m *Module) Add(classes ...Registrant) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.classes = append(m.classes, classes...)
}

// SetName sets the module name
func (m *Module) SetName(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.name = name
}

// Name returns the module name
func (m *Module) Name() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.name
}

// SetLogger replaces the module's logger
func (m *Module) SetLogger(l *debug.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = l
}

// Classes returns the registered class descriptions
func (m *Module) Classes() []Registrant {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Registrant, len(m.classes))
	copy(out, m.classes)
	return out
}

// Version is the ck_version entry point
func (m *Module) Version() chuck.Version {
	return chuck.DLLVersion
}

// Query is the ck_query entry point: it registers every class and reports
// overall success. The first error aborts the rest and is logged.
func (m *Module) Query(q chuck.Query) bool {
	if err := m.Register(q); err != nil {
		m.mu.RLock()
		logger := m.logger
		m.mu.RUnlock()
		logger.Error("chugin query failed: %v", err)
		return false
	}
	return true
}

// Register runs one registration session over q for all classes.
func (m *Module) Register(q chuck.Query) error {
	if err := m.Validate(); err != nil {
		return err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	s, err := query.New(q)
	if err != nil {
		return err
	}
	s.SetLogger(m.logger)

	if m.name != "" {
		if err := s.SetName(m.name); err != nil {
			return err
		}
	}
	for _, c := range m.classes {
		if err := c.Register(s); err != nil {
			return errors.Wrapf(err, "register %s", c.Info().Name)
		}
		m.logger.Debug("registered class %s", c.Info().Name)
	}
	return nil
}

// Validate checks every class and rejects duplicate class names
func (m *Module) Validate() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]bool, len(m.classes))
	for _, c := range m.classes {
		info := c.Info()
		if err := validateClass(info); err != nil {
			return err
		}
		if seen[info.Name] {
			return errors.Wrapf(chuck.ErrInvalidClass, "class %s declared twice", info.Name)
		}
		seen[info.Name] = true
	}
	return nil
}

// Manifest describes the module
func (m *Module) Manifest() Manifest {
	m.mu.RLock()
	defer m.mu.RUnlock()

	man := Manifest{
		Name:    m.name,
		Version: chuck.FormatVersion(chuck.DLLVersion),
		Encoded: chuck.DLLVersion,
		Classes: make([]ClassInfo, 0, len(m.classes)),
	}
	for _, c := range m.classes {
		man.Classes = append(man.Classes, c.Info())
	}
	return man
}

// The process-wide module a c-shared chugin exposes through ck_query.
var defaultModule = NewModule("")

// Register adds classes to the default module
func Register(classes ...Registrant) {
	defaultModule.Add(classes...)
}

// SetName names the default module
func SetName(name string) {
	defaultModule.SetName(name)
}

// Default returns the default module
func Default() *Module {
	return defaultModule
}
