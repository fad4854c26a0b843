// Package scenario turns a validated config.Config into a running scene:
// a dynamo.World with walls, bodies, joints and force generators, plus the
// screen-space views renderers draw from.
package scenario

import (
	"fmt"

	"github.com/san-kum/mechsim/internal/config"
)

// Kind selects which scene the builder assembles.
type Kind int

const (
	Free Kind = iota
	Pendulum
	Centripetal
	Slope
	Car
)

var kindNames = map[Kind]string{
	Free:        config.ScenarioFree,
	Pendulum:    config.ScenarioPendulum,
	Centripetal: config.ScenarioCentripetal,
	Slope:       config.ScenarioSlope,
	Car:         config.ScenarioCar,
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown scenario: %s", name)
}
