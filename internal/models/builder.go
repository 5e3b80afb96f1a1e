package models

import (
	"fmt"

	"github.com/avdwal/mbtree/internal/compose"
	"github.com/avdwal/mbtree/internal/config"
)

// loadGroupHolder is satisfied by models and connections alike.
type loadGroupHolder interface {
	AddLoadGroups(groups ...compose.LoadGroupComponent) error
}

// Assemble builds an unbuilt rolling-disc tree from a configuration,
// instantiating every component through the registry and wiring the slots.
// The returned model is ready for DefineAll.
func Assemble(cfg *config.Config, reg *Registry) (*RollingDisc, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ground, err := reg.Ground(cfg.Ground.Kind, cfg.Ground.Name)
	if err != nil {
		return nil, err
	}
	wheel, err := reg.Wheel(cfg.Wheel.Kind, cfg.Wheel.Name)
	if err != nil {
		return nil, err
	}
	tire, err := reg.Tire(cfg.Tire.Kind, cfg.Tire.Name)
	if err != nil {
		return nil, err
	}

	disc := NewRollingDisc(cfg.Name)
	if err := disc.SetSubmodel("ground", ground); err != nil {
		return nil, err
	}
	if err := disc.SetSubmodel("disc", wheel); err != nil {
		return nil, err
	}
	if err := disc.SetConnection("tire", tire); err != nil {
		return nil, err
	}

	if err := attachGroups(reg, wheel, cfg.WheelLoads); err != nil {
		return nil, err
	}
	if err := attachGroups(reg, tire, cfg.TireLoads); err != nil {
		return nil, err
	}
	return disc, nil
}

func attachGroups(reg *Registry, parent compose.Component, configs []config.ComponentConfig) error {
	if len(configs) == 0 {
		return nil
	}
	holder, ok := parent.(loadGroupHolder)
	if !ok {
		return fmt.Errorf("models: %q cannot hold load groups", parent.Name())
	}
	for _, cc := range configs {
		lg, err := reg.LoadGroup(cc.Kind, cc.Name)
		if err != nil {
			return err
		}
		if err := holder.AddLoadGroups(lg); err != nil {
			return err
		}
	}
	return nil
}
