package example

import (
	"fmt"
	str "strings"

	facto "go.trai.ch/facto/pkg/facto"
)

var defaultName = "gopher"

type Config struct {
	Name string
}

func Register(add func(id string, fn func(facto.Container) (any, error))) {
	add("plain", func(c facto.Container) (any, error) {
		return str.ToUpper("hello"), nil
	})

	add("formatted", func(c facto.Container) (any, error) {
		name, err := c.Get("name")
		if err != nil {
			return nil, fmt.Errorf("name: %w", err)
		}
		return Config{Name: fmt.Sprint(name)}, nil
	})

	prefix := "hi"
	add("captures", func(c facto.Container) (any, error) {
		return prefix + defaultName, nil
	})

	add("nested", func(c facto.Container) (any, error) { return func() string { return "x" }(), nil })

	add("locals", func(c facto.Container) (any, error) {
		total := 0
		for i := range 3 {
			total += i
		}
		_ = total
		return map[string]int{"total": total}, nil
	})

	key := "k"
	add("map key", func(c facto.Container) (any, error) {
		return map[string]int{key: 1}, nil
	})

	add("field keys", func(c facto.Container) (any, error) {
		name := "n"
		return struct{ Name string }{Name: name}, nil
	})
}
