package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// fields are the named values of an action, read from either a JSON body or
// an urlencoded form. The first value of a repeated form key wins.
type fields map[string]string

func readFields(c *fiber.Ctx) (fields, error) {
	f := fields{}
	if c.Is("json") {
		body := c.Body()
		if len(bytes.TrimSpace(body)) == 0 {
			return f, nil
		}
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		var raw map[string]any
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("invalid JSON body: %w", err)
		}
		for k, v := range raw {
			if v != nil {
				f[k] = fmt.Sprint(v)
			}
		}
		return f, nil
	}

	c.Request().PostArgs().VisitAll(func(k, v []byte) {
		if _, seen := f[string(k)]; !seen {
			f[string(k)] = string(v)
		}
	})
	return f, nil
}

func (f fields) text(name string) (string, bool) {
	v, ok := f[name]
	return strings.TrimSpace(v), ok
}

func (f fields) float(name string) (float64, bool, error) {
	s, ok := f.text(name)
	if !ok || s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%s must be a number, got %q", name, s)
	}
	return v, true, nil
}

func (f fields) integer(name string) (int, bool, error) {
	s, ok := f.text(name)
	if !ok || s == "" {
		return 0, false, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, fmt.Errorf("%s must be a whole number, got %q", name, s)
	}
	return v, true, nil
}

func (f fields) flag(name string) (bool, bool, error) {
	s, ok := f.text(name)
	if !ok || s == "" {
		return false, false, nil
	}
	switch strings.ToLower(s) {
	case "on":
		return true, true, nil
	case "off":
		return false, true, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, false, fmt.Errorf("%s must be true or false, got %q", name, s)
	}
	return v, true, nil
}
