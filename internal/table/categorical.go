package table

import "fmt"

// Missing is the code of a row with no category.
const Missing = -1

// Categorical is a label column over a fixed domain. Codes index into Domain
// in declared order; rows without a value carry Missing.
type Categorical struct {
	Domain  []string
	Ordered bool
	Codes   []int
	index   map[string]int
}

// NewCategorical encodes labels against domain. An empty label is missing;
// any other label outside the domain is reported with its 0-based row.
func NewCategorical(domain []string, ordered bool, labels []string) (*Categorical, error) {
	c := &Categorical{
		Domain:  append([]string(nil), domain...),
		Ordered: ordered,
		Codes:   make([]int, len(labels)),
	}
	c.buildIndex()
	for i, lb := range labels {
		if lb == "" {
			c.Codes[i] = Missing
			continue
		}
		code, ok := c.index[lb]
		if !ok {
			return nil, &UnknownLabelError{Row: i, Label: lb}
		}
		c.Codes[i] = code
	}
	return c, nil
}

func (c *Categorical) buildIndex() {
	c.index = make(map[string]int, len(c.Domain))
	for i, d := range c.Domain {
		c.index[d] = i
	}
}

// Len returns the number of rows.
func (c *Categorical) Len() int { return len(c.Codes) }

// Code returns the domain position of label.
func (c *Categorical) Code(label string) (int, bool) {
	if c.index == nil {
		c.buildIndex()
	}
	i, ok := c.index[label]
	return i, ok
}

// Label returns the label of row i, or false when the row is missing.
func (c *Categorical) Label(i int) (string, bool) {
	code := c.Codes[i]
	if code == Missing {
		return "", false
	}
	return c.Domain[code], true
}

// UnknownLabelError reports a label outside the declared domain.
type UnknownLabelError struct {
	Row   int
	Label string
}

func (e *UnknownLabelError) Error() string {
	return fmt.Sprintf("row %d: label %q outside declared domain", e.Row+1, e.Label)
}
