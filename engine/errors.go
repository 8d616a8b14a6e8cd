package engine

import (
	"fmt"

	"github.com/mogaika/freescape/utils"
)

// LogicError reports loaded data the interpreter disagrees with, such as an
// instruction naming an area or object that does not exist.
type LogicError struct {
	Msg string
}

func (e *LogicError) Error() string {
	return "logic error: " + e.Msg
}

func (g *Game) logicError(format string, a ...interface{}) {
	err := &LogicError{Msg: fmt.Sprintf(format, a...)}
	if g.Options.StrictLogic {
		panic(err)
	}
	utils.Channel(utils.ChannelCode).Warn(err.Error())
}
