package recipe

// Measure is a quantity paired with a unit. Zero and negative quantities are
// legal and flow through arithmetic unchanged.
type Measure struct {
	Quantity float64 `json:"quantity" toml:"quantity"`
	Unit     Unit    `json:"unit" toml:"unit"`
}

// NewMeasure returns an empty measure in the given unit.
func NewMeasure(unit Unit) Measure {
	return Measure{Unit: unit}
}

// ConvertTo expresses m in the target unit by walking the lattice one step
// at a time.
//
// When either side is Whole the measure is returned unchanged rather than
// reporting an error, so callers asking for Cups from a Whole measure get the
// Whole measure back.
func (m Measure) ConvertTo(target Unit) Measure {
	if !m.Unit.Valid() || !target.Valid() {
		return m
	}
	order, ok := m.Unit.Compare(target)
	if !ok || order == 0 {
		return m
	}

	table := nextSmallest[:]
	if order < 0 {
		table = nextBiggest[:]
	}

	qty, current := m.Quantity, m.Unit
	for current != target {
		s := table[current]
		qty *= s.multiplier
		current = s.next
	}
	return Measure{Quantity: qty, Unit: current}
}

// Add sums two measures, keeping the unit of m. other is converted into m's
// unit first unless the units already match or either is Whole.
//
// Add is not commutative: a.Add(b) and b.Add(a) differ in unit and, because
// of conversion rounding, possibly in value.
func (m Measure) Add(other Measure) Measure {
	if m.Unit == other.Unit || m.Unit == Whole || other.Unit == Whole {
		return Measure{Quantity: m.Quantity + other.Quantity, Unit: m.Unit}
	}
	converted := other.ConvertTo(m.Unit)
	return Measure{Quantity: m.Quantity + converted.Quantity, Unit: m.Unit}
}
