package tool

// Type represents JSON Schema types.
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
)

// Schema represents a JSON Schema for tool parameters.
type Schema struct {
	Type        Type               `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
}

// Object builds an object schema whose properties are all strings.
// Every property listed in required must also appear in props.
func Object(props map[string]string, required ...string) *Schema {
	s := &Schema{
		Type:       TypeObject,
		Properties: make(map[string]*Schema, len(props)),
		Required:   required,
	}
	for name, desc := range props {
		s.Properties[name] = &Schema{Type: TypeString, Description: desc}
	}
	return s
}

// Declaration declares a tool's function signature for the LLM.
type Declaration struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Parameters  *Schema `json:"parameters,omitempty"`
}

// Result is the in-band outcome of a tool execution. Failures are rendered
// as text prefixed with "Error:" so the model can see them.
type Result struct {
	Content string
	IsError bool
}
