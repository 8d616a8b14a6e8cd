package loader

import (
	"fmt"

	"github.com/mogaika/freescape/fcl"
	"github.com/mogaika/freescape/world"
)

// Dangling is an FCL operand that names an area, object or entrance missing from the world.
type Dangling struct {
	Program     string `json:"program"`
	Instruction string `json:"instruction"`
	Reason      string `json:"reason"`
}

func (d Dangling) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Program, d.Instruction, d.Reason)
}

type validator struct {
	w      *world.World
	result []Dangling
}

// Validate statically resolves every GOTO, visibility and destroy operand.
// Unqualified object ids resolve against the owning area and then the global
// library area; global conditions accept an object present in any area.
func Validate(w *world.World) []Dangling {
	v := &validator{w: w}
	for i, program := range w.GlobalConditions {
		v.program(fmt.Sprintf("global condition %d", i), nil, program)
	}
	for _, id := range w.SortedAreaIDs() {
		a := w.Area(id)
		for i, program := range a.Conditions {
			v.program(fmt.Sprintf("area %d condition %d", id, i), a, program)
		}
		for _, obj := range a.Objects() {
			if program := obj.Condition(); program != nil {
				v.program(fmt.Sprintf("area %d object %d", id, obj.ID()), a, program)
			}
		}
	}
	return v.result
}

func (v *validator) report(program string, ins *fcl.Instruction, format string, a ...interface{}) {
	v.result = append(v.result, Dangling{
		Program:     program,
		Instruction: ins.String(),
		Reason:      fmt.Sprintf(format, a...),
	})
}

// objectExists also accepts reserved ids, those objects are spawned during play.
func (v *validator) objectExists(a *world.Area, id uint16) bool {
	if world.IsReservedID(id) || a.HasObject(id) {
		return true
	}
	if g := v.w.GlobalArea(); g != nil && g.HasObject(id) {
		return true
	}
	return false
}

func (v *validator) program(name string, owner *world.Area, program fcl.Instructions) {
	program.Walk(func(ins *fcl.Instruction) {
		switch ins.Type {
		case fcl.TOKEN_GOTO:
			target := v.w.Area(uint16(ins.Source))
			if target == nil {
				v.report(name, ins, "area %d does not exist", ins.Source)
			} else if target.EntranceWithID(uint16(ins.Destination)) == nil {
				v.report(name, ins, "entrance %d does not exist in area %d", ins.Destination, ins.Source)
			}
		case fcl.TOKEN_VIS, fcl.TOKEN_INVIS, fcl.TOKEN_TOGVIS, fcl.TOKEN_DESTROY, fcl.TOKEN_INVISQ:
			id := uint16(ins.Source)
			if ins.Qualified {
				target := v.w.Area(uint16(ins.Additional))
				if target == nil {
					v.report(name, ins, "area %d does not exist", ins.Additional)
				} else if !v.objectExists(target, id) {
					v.report(name, ins, "object %d does not exist in area %d", id, ins.Additional)
				}
				return
			}
			if owner != nil {
				if !v.objectExists(owner, id) {
					v.report(name, ins, "object %d does not exist in area %d", id, owner.ID)
				}
				return
			}
			for _, a := range v.w.Areas {
				if a.HasObject(id) {
					return
				}
			}
			v.report(name, ins, "object %d does not exist in any area", id)
		}
	})
}
