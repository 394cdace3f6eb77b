package model

// TipoPrecio is the price tier applied to a line item when it was sold.
// It is decided at checkout and stored with the item, so tickets never have to
// reconstruct it from free text.
type TipoPrecio string

const (
	PrecioNormal   TipoPrecio = "ninguno"
	PrecioMayoreo  TipoPrecio = "mayoreo"
	PrecioEspecial TipoPrecio = "especial"
	PrecioVendedor TipoPrecio = "vendedor"
)

// Valid reports whether t is one of the known tiers.
func (t TipoPrecio) Valid() bool {
	switch t {
	case PrecioNormal, PrecioMayoreo, PrecioEspecial, PrecioVendedor:
		return true
	}
	return false
}
