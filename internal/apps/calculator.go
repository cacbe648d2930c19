package apps

import (
	"math"
	"strconv"
	"strings"
)

// Operators accepted by the calculator. "*" and "/" are accepted as aliases.
const (
	OpAdd      = "+"
	OpSubtract = "-"
	OpMultiply = "×"
	OpDivide   = "÷"
)

// Calculator is a four-function calculator that evaluates each operator as
// soon as the next one is entered, so 2 + 3 × 4 is 20.
type Calculator struct {
	display  string
	previous *float64
	op       string
	waiting  bool
}

func NewCalculator() *Calculator {
	return &Calculator{display: "0"}
}

func (c *Calculator) Name() string { return "calculator" }
func (c *Calculator) Activate()    {}
func (c *Calculator) Deactivate()  {}

// Display returns the current display string.
func (c *Calculator) Display() string { return c.display }

// Pending returns the stored operand and operator, if any.
func (c *Calculator) Pending() (float64, string, bool) {
	if c.previous == nil {
		return 0, "", false
	}
	return *c.previous, c.op, true
}

// InputDigit appends d, or starts a new operand after an operator.
func (c *Calculator) InputDigit(d string) {
	if c.waiting {
		c.display = d
		c.waiting = false
		return
	}
	if c.display == "0" {
		c.display = d
	} else {
		c.display += d
	}
}

// InputDecimal adds a decimal point to the current operand.
func (c *Calculator) InputDecimal() {
	if c.waiting {
		c.display = "0."
		c.waiting = false
		return
	}
	if !strings.Contains(c.display, ".") {
		c.display += "."
	}
}

// Operation stores the next operator, first applying the pending one.
func (c *Calculator) Operation(next string) {
	input := parseDisplay(c.display)
	switch {
	case c.previous == nil:
		c.previous = &input
	case c.op != "":
		// A NaN running total restarts from zero; Equals keeps it.
		prev := *c.previous
		if math.IsNaN(prev) {
			prev = 0
		}
		result := calculate(prev, input, c.op)
		c.display = formatNumber(result)
		c.previous = &result
	}
	c.waiting = true
	c.op = normalizeOp(next)
}

// Equals applies the pending operator. It does nothing without one.
func (c *Calculator) Equals() {
	if c.previous == nil {
		return
	}
	result := calculate(*c.previous, parseDisplay(c.display), c.op)
	c.display = formatNumber(result)
	c.previous = nil
	c.op = ""
	c.waiting = true
}

// Clear resets the calculator.
func (c *Calculator) Clear() {
	c.display = "0"
	c.previous = nil
	c.op = ""
	c.waiting = false
}

// Backspace removes the last display character.
func (c *Calculator) Backspace() {
	if len(c.display) > 1 {
		c.display = c.display[:len(c.display)-1]
	} else {
		c.display = "0"
	}
}

// Press handles one calculator key. It reports whether the key was
// recognized.
func (c *Calculator) Press(key string) bool {
	switch key {
	case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9":
		c.InputDigit(key)
	case ".":
		c.InputDecimal()
	case OpAdd, OpSubtract, OpMultiply, OpDivide, "*", "/", "x":
		c.Operation(key)
	case "=", "enter":
		c.Equals()
	case "c", "C", "clear", "esc":
		c.Clear()
	case "backspace":
		c.Backspace()
	default:
		return false
	}
	return true
}

// Eval feeds each rune of keys to Press, skipping whitespace, and returns the
// final display.
func (c *Calculator) Eval(keys string) string {
	for _, r := range keys {
		if r == ' ' || r == '\t' {
			continue
		}
		c.Press(string(r))
	}
	return c.display
}

func normalizeOp(op string) string {
	switch op {
	case "*", "x":
		return OpMultiply
	case "/":
		return OpDivide
	}
	return op
}

func calculate(a, b float64, op string) float64 {
	switch op {
	case OpAdd:
		return a + b
	case OpSubtract:
		return a - b
	case OpMultiply:
		return a * b
	case OpDivide:
		return a / b
	default:
		return b
	}
}

// parseDisplay reads the leading number of the display the way a browser's
// parseFloat does, so "3." is 3 and "Infinity5" is +Inf.
func parseDisplay(s string) float64 {
	switch {
	case strings.HasPrefix(s, "Infinity"):
		return math.Inf(1)
	case strings.HasPrefix(s, "-Infinity"):
		return math.Inf(-1)
	case strings.HasPrefix(s, "NaN"):
		return math.NaN()
	}
	s = strings.TrimSuffix(s, ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// formatNumber renders f the way a browser converts numbers to strings:
// shortest round-trip digits, exponent form outside [1e-6, 1e21).
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
		return mant + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
