package ir

// Item identifiers are assigned by the front-end. This layer only compares
// them; it never checks that an id refers to a declared item.
type (
	AdtID        uint32
	TraitID      uint32
	AssocTypeID  uint32
	OpaqueTyID   uint32
	FnDefID      uint32
	ClosureID    uint32
	GeneratorID  uint32
	ForeignDefID uint32
)

// ItemKind tags the id namespaces above, used when naming ids for display.
type ItemKind uint8

const (
	ItemAdt ItemKind = iota
	ItemTrait
	ItemAssocType
	ItemOpaqueTy
	ItemFnDef
	ItemClosure
	ItemGenerator
	ItemForeign
)

// String returns the item kind's lowercase name.
func (k ItemKind) String() string {
	switch k {
	case ItemAdt:
		return "adt"
	case ItemTrait:
		return "trait"
	case ItemAssocType:
		return "assoc_type"
	case ItemOpaqueTy:
		return "opaque_ty"
	case ItemFnDef:
		return "fn_def"
	case ItemClosure:
		return "closure"
	case ItemGenerator:
		return "generator"
	case ItemForeign:
		return "foreign"
	default:
		return "unknown"
	}
}

// Namer resolves item ids to display names. Rendering falls back to "#id"
// when no Namer is supplied or the id is unknown.
type Namer interface {
	ItemName(kind ItemKind, id uint32) (string, bool)
}
