package instruction

import "errors"

// ErrInvalidInstruction indicates the instruction buffer is empty, truncated,
// or carries an unknown tag.
var ErrInvalidInstruction = errors.New("instruction: invalid instruction")
