package datactx

import "errors"

// ErrCommandOverride is returned when a command is declared over an
// existing non-command property of the same name.
var ErrCommandOverride = errors.New("datactx: cannot override a property with a command")

// ErrInvalidDefinition is returned for declarations whose shape is
// ambiguous or incomplete, such as a component with custom accessors.
var ErrInvalidDefinition = errors.New("datactx: invalid property definition")

// ErrDuplicateProperty is returned when one DeclareProperties call names
// the same property twice.
var ErrDuplicateProperty = errors.New("datactx: duplicate property declaration")

// ErrInvalidType is returned for unnamed types or types that do not
// belong to the registry they are used with.
var ErrInvalidType = errors.New("datactx: invalid type")

// ErrUnknownProperty is returned by Set for names the type does not declare.
var ErrUnknownProperty = errors.New("datactx: unknown property")

// ErrReadOnly is returned by Set for commands, components and get-only
// properties.
var ErrReadOnly = errors.New("datactx: property is read-only")
