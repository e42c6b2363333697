package tomlconfig

// Provenance records which document keys were explicitly assigned while
// loading, as opposed to left at their default. Config types must embed it:
//
//	type Config struct {
//	    tomlconfig.Provenance
//
//	    Port int
//	}
//
// The zero value is ready to use.
type Provenance struct {
	set map[string]struct{}
}

func (p *Provenance) mark(key string) {
	if p.set == nil {
		p.set = make(map[string]struct{})
	}
	p.set[key] = struct{}{}
}

// ExplicitlySet returns the document keys that were explicitly assigned on
// cfg during loading. cfg must be a pointer to a registered type. The result
// is a snapshot; mutating it does not affect cfg's tracking.
func ExplicitlySet(cfg any) (map[string]struct{}, error) {
	s, v, err := schemaFor(cfg)
	if err != nil {
		return nil, err
	}
	prov := s.provenance(v)
	out := make(map[string]struct{}, len(prov.set))
	for key := range prov.set {
		out[key] = struct{}{}
	}
	return out, nil
}
