package device

// ComponentType discriminates component files.
type ComponentType string

const (
	TypeJSONL ComponentType = "jsonl"
	TypeCmd   ComponentType = "cmd"
	TypeImage ComponentType = "image"
	TypeFont  ComponentType = "font"
)

// Component is one source file belonging to a device's configuration.
type Component struct {
	Name    string // file name, also used as the output file name
	Path    string
	Type    ComponentType
	Content string // raw text for jsonl and cmd components
	Common  bool   // shared component from the common directory
}

// Device aggregates the ordered component lists of one display.
type Device struct {
	Name   string
	Path   string
	Config Config
	JSONL  []*Component
	Cmd    []*Component
	Images []*Component
	Fonts  []*Component
}

// Components returns all components in processing order.
func (d *Device) Components() []*Component {
	out := make([]*Component, 0, len(d.JSONL)+len(d.Cmd)+len(d.Images)+len(d.Fonts))
	out = append(out, d.JSONL...)
	out = append(out, d.Cmd...)
	out = append(out, d.Images...)
	out = append(out, d.Fonts...)
	return out
}

func (d *Device) add(c *Component) {
	list := d.listFor(c.Type)
	for i, existing := range *list {
		if existing.Name == c.Name {
			(*list)[i] = c
			return
		}
	}
	*list = append(*list, c)
}

func (d *Device) listFor(t ComponentType) *[]*Component {
	switch t {
	case TypeJSONL:
		return &d.JSONL
	case TypeCmd:
		return &d.Cmd
	case TypeImage:
		return &d.Images
	default:
		return &d.Fonts
	}
}
