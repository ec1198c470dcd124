package index

import "fmt"

// Topology is the tagged single-index / multi-index configuration
// variant. The router matches on it explicitly instead of probing
// configuration keys.
type Topology struct {
	single  *Region
	regions []*Region // configuration order, significant for merge tie-breaks
	byName  map[string]*Region
}

// SingleTopology wraps one region serving every selector (the legacy
// fallback deployment).
func SingleTopology(r *Region) Topology {
	return Topology{
		single: r,
		byName: map[string]*Region{r.Name(): r},
	}
}

// MultiTopology wraps one region per configured prefecture. Region
// order follows configuration and is preserved by routing.
func MultiTopology(regions []*Region) (Topology, error) {
	if len(regions) == 0 {
		return Topology{}, fmt.Errorf("multi-index topology needs at least one region")
	}
	byName := make(map[string]*Region, len(regions))
	for _, r := range regions {
		if _, dup := byName[r.Name()]; dup {
			return Topology{}, fmt.Errorf("duplicate region %q", r.Name())
		}
		byName[r.Name()] = r
	}
	return Topology{regions: regions, byName: byName}, nil
}

// Multi reports whether this is a multi-index deployment.
func (t Topology) Multi() bool { return t.single == nil }

// Region returns the region for a prefecture code.
func (t Topology) Region(name string) (*Region, bool) {
	r, ok := t.byName[name]
	return r, ok
}

// All returns every region in configuration order.
func (t Topology) All() []*Region {
	if t.single != nil {
		return []*Region{t.single}
	}
	return t.regions
}
