package schema

// Property is a named, typed bean property.
type Property struct {
	Name     string
	Type     Type
	Required bool
	// Deprecated marks the property as deprecated. DeprecationMessage, when set,
	// replaces the synthesized message.
	Deprecated             bool
	DeprecationMessage     string
	DeprecationReplacement string
	Description            string
}

// Prop creates a property.
func Prop(name string, t Type) *Property {
	return &Property{Name: name, Type: t}
}

// AsRequired marks the property as required.
func (p *Property) AsRequired() *Property {
	p.Required = true
	return p
}

// Deprecate marks the property as deprecated with an optional message.
func (p *Property) Deprecate(msg string) *Property {
	p.Deprecated = true
	p.DeprecationMessage = msg

	return p
}

// ReplacedBy marks the property as deprecated in favor of replacement.
func (p *Property) ReplacedBy(replacement string) *Property {
	p.Deprecated = true
	p.DeprecationReplacement = replacement

	return p
}

// Describe sets the property description.
func (p *Property) Describe(d string) *Property {
	p.Description = d
	return p
}

func (p *Property) String() string {
	return p.Name + ":" + p.Type.String()
}

// PropertyMap is an ordered name to property map.
type PropertyMap struct {
	list  []*Property
	index map[string]*Property
}

func newPropertyMap() *PropertyMap {
	return &PropertyMap{index: make(map[string]*Property)}
}

func (m *PropertyMap) add(p *Property) {
	if old, ok := m.index[p.Name]; ok {
		for i, q := range m.list {
			if q == old {
				m.list[i] = p
			}
		}
	} else {
		m.list = append(m.list, p)
	}

	m.index[p.Name] = p
}

// Get returns the named property.
func (m *PropertyMap) Get(name string) (*Property, bool) {
	if m == nil {
		return nil, false
	}

	p, ok := m.index[name]

	return p, ok
}

// Has reports whether the named property exists.
func (m *PropertyMap) Has(name string) bool {
	_, ok := m.Get(name)
	return ok
}

// All returns the properties in declaration order.
func (m *PropertyMap) All() []*Property {
	if m == nil {
		return nil
	}

	return m.list
}

// Names returns the property names in declaration order.
func (m *PropertyMap) Names() []string {
	names := make([]string, 0, m.Len())
	for _, p := range m.All() {
		names = append(names, p.Name)
	}

	return names
}

// Len returns the number of properties.
func (m *PropertyMap) Len() int {
	if m == nil {
		return 0
	}

	return len(m.list)
}
