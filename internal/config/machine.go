package config

import (
	"fmt"

	"github.com/slaide/seaconfig/internal/configitem"
	"github.com/slaide/seaconfig/internal/wellplate"
)

// Item converts the entry into a machine setting. A boolean value on an option
// entry without options selects from the yes/no pair.
func (m MachineConfig) Item() (configitem.Item, error) {
	if m.Handle == "" {
		return configitem.Item{}, fmt.Errorf("machine setting %q has no handle", m.Name)
	}
	kind, err := configitem.ParseKind(m.Kind)
	if err != nil {
		return configitem.Item{}, fmt.Errorf("machine setting %q: %w", m.Handle, err)
	}
	name := m.Name
	if name == "" {
		name = m.Handle
	}
	options := make([]configitem.Option, 0, len(m.Options))
	for _, o := range m.Options {
		options = append(options, configitem.Option{Name: o.Name, Handle: o.Handle})
	}
	var v configitem.Value
	switch t := m.Value.(type) {
	case int64:
		v = configitem.IntValue(t)
	case float64:
		v = configitem.FloatValue(t)
	case string:
		v = configitem.TextValue(t)
	case bool:
		if kind != configitem.KindOption {
			return configitem.Item{}, fmt.Errorf("machine setting %q: boolean value needs kind %q", m.Handle, configitem.KindOption)
		}
		if len(options) == 0 {
			options = configitem.BoolOptions()
		}
		v = configitem.TextValue(configitem.HandleNo)
		if t {
			v = configitem.TextValue(configitem.HandleYes)
		}
	case nil:
		return configitem.Item{}, fmt.Errorf("machine setting %q has no value", m.Handle)
	default:
		return configitem.Item{}, fmt.Errorf("machine setting %q: unsupported value %T", m.Handle, m.Value)
	}
	if len(options) == 0 {
		options = nil
	}
	it, err := configitem.New(name, m.Handle, kind, v, options)
	if err != nil {
		return configitem.Item{}, fmt.Errorf("machine setting %q: %w", m.Handle, err)
	}
	it.Frozen = m.Frozen
	return it, nil
}

// MachineItems converts every [[machine]] entry, rejecting duplicate handles.
func (c FileConfig) MachineItems() ([]configitem.Item, error) {
	items := make([]configitem.Item, 0, len(c.Machine))
	seen := make(map[string]bool, len(c.Machine))
	for _, m := range c.Machine {
		it, err := m.Item()
		if err != nil {
			return nil, err
		}
		if seen[it.Handle] {
			return nil, fmt.Errorf("duplicate machine setting %q", it.Handle)
		}
		seen[it.Handle] = true
		items = append(items, it)
	}
	return items, nil
}

// Validate checks the machine settings and that the default wellplate exists
// in catalog.
func (c FileConfig) Validate(catalog *wellplate.Catalog) error {
	if _, err := c.MachineItems(); err != nil {
		return err
	}
	if c.Defaults.Wellplate != nil {
		if _, ok := catalog.Lookup(*c.Defaults.Wellplate); !ok {
			return fmt.Errorf("default wellplate %q is not in the catalog", *c.Defaults.Wellplate)
		}
	}
	return nil
}
