package spindle

import "github.com/xraph/spindle/id"

// ID is the primary identifier type for all spindle entities.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix
