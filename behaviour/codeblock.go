package behaviour

import "github.com/cpmech/mfront/mferr"

// InsertionPolicy is one of the four code-block mutation policies spec.md
// §4.4 names.
type InsertionPolicy int

const (
	Create InsertionPolicy = iota
	CreateOrAppend
	CreateOrReplace
	CreateButDontReplace
)

// Position is where new text is inserted relative to existing code-block
// content.
type Position int

const (
	Body Position = iota
	AtBeginning
	AtEnd
)

// CodeBlock is one behaviour-data-indexed block of author source text
// (spec.md §3).
type CodeBlock struct {
	Kind                   string // e.g. "Integrator", "Predictor", "TangentOperator"
	Text                   string
	Members                map[string]bool // referenced instance members
	StaticMembers          map[string]bool // referenced static members
	Attributes             map[string]interface{}
	Description            string
	Line                   int
}

// NewCodeBlock allocates an empty code block of the given kind.
func NewCodeBlock(kind string, line int) *CodeBlock {
	return &CodeBlock{
		Kind:          kind,
		Members:       map[string]bool{},
		StaticMembers: map[string]bool{},
		Attributes:    map[string]interface{}{},
		Line:          line,
	}
}

// Insert mutates the code block's text according to policy and position.
// It is the single place spec.md §4.4's {CREATE, CREATEORAPPEND,
// CREATEORREPLACE, CREATEBUTDONTREPLACE} x {BODY, AT_BEGINNING, AT_END}
// matrix is implemented.
func (c *CodeBlock) Insert(text string, policy InsertionPolicy, pos Position) error {
	exists := c.Text != ""
	switch policy {
	case Create:
		if exists {
			return mferr.New(mferr.DuplicateDeclaration, "codeblock",
				"code block %q already exists; use Append or Replace", c.Kind)
		}
		c.Text = text
	case CreateButDontReplace:
		if !exists {
			c.Text = text
		}
	case CreateOrReplace:
		c.Text = text
	case CreateOrAppend:
		if !exists {
			c.Text = text
			return nil
		}
		switch pos {
		case AtBeginning:
			c.Text = text + c.Text
		case AtEnd:
			c.Text = c.Text + text
		default: // Body
			c.Text = c.Text + text
		}
	}
	return nil
}
