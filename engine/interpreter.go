package engine

import (
	"github.com/mogaika/freescape/fcl"
	"github.com/mogaika/freescape/utils"
	"github.com/mogaika/freescape/world"
)

// run is the context of one ExecuteCode invocation.
type run struct {
	area     *world.Area
	shot     bool
	collided bool
}

// ExecuteCode runs a program to completion. It reports whether any
// instruction other than a guard executed. shot and collided are exclusive.
func (g *Game) ExecuteCode(code fcl.Instructions, shot, collided bool) bool {
	if shot && collided {
		panic("engine: ExecuteCode called with both shot and collided")
	}
	r := &run{area: g.current, shot: shot, collided: collided}
	return g.executeBlock(r, code)
}

func (g *Game) executeBlock(r *run, code fcl.Instructions) bool {
	log := utils.Channel(utils.ChannelCode)
	executed := false

	for ip := 0; ip < len(code); ip++ {
		ins := code[ip]
		switch ins.Type {
		case fcl.TOKEN_SHOTQ:
			if r.shot {
				executed = g.executeBlock(r, ins.Then) || executed
			}
			continue
		case fcl.TOKEN_COLLIDEDQ:
			if r.collided {
				executed = g.executeBlock(r, ins.Then) || executed
			}
			continue
		}

		executed = true
		log.Debugf("Executing %v", ins)

		switch ins.Type {
		case fcl.TOKEN_NOP:
		case fcl.TOKEN_ADDVAR:
			g.State.AddVar(int(ins.Source), ins.Destination)
		case fcl.TOKEN_SUBVAR:
			g.State.AddVar(int(ins.Source), -ins.Destination)
		case fcl.TOKEN_SETVAR:
			g.State.SetVar(int(ins.Source), ins.Destination)
		case fcl.TOKEN_VARNOTEQ:
			if g.State.Var(int(ins.Source)) != ins.Destination {
				ip = len(code)
			}
		case fcl.TOKEN_SETBIT, fcl.TOKEN_CLEARBIT, fcl.TOKEN_TOGGLEBIT:
			// bit words follow the player even when object ids stay on the run area
			if index, ok := g.bitIndex(ins); ok {
				switch ins.Type {
				case fcl.TOKEN_SETBIT:
					g.State.SetBit(g.current.ID, index)
				case fcl.TOKEN_CLEARBIT:
					g.State.ClearBit(g.current.ID, index)
				default:
					g.State.ToggleBit(g.current.ID, index)
				}
			}
		case fcl.TOKEN_BITNOTEQ:
			if index, ok := g.bitIndex(ins); ok {
				if g.State.Bit(g.current.ID, index) != (ins.Destination != 0) {
					ip = len(code)
				}
			}
		case fcl.TOKEN_VIS, fcl.TOKEN_INVIS, fcl.TOKEN_TOGVIS, fcl.TOKEN_DESTROY:
			if obj := g.resolveObject(r, ins, true); obj != nil {
				switch ins.Type {
				case fcl.TOKEN_VIS:
					obj.Flags().MakeVisible()
				case fcl.TOKEN_INVIS:
					obj.Flags().MakeInvisible()
				case fcl.TOKEN_TOGVIS:
					obj.Flags().ToggleVisibility()
				default:
					if obj.Flags().IsDestroyed() {
						log.Debugf("Object %d already destroyed", obj.ID())
					}
					obj.Flags().Destroy()
				}
			}
		case fcl.TOKEN_INVISQ:
			if obj := g.resolveObject(r, ins, false); obj != nil {
				if obj.Flags().IsInvisible() == (ins.Destination != 0) {
					ip = len(code)
				}
			}
		case fcl.TOKEN_GOTO:
			if err := g.GotoArea(uint16(ins.Source), uint16(ins.Destination)); err != nil {
				g.logicError("%v: %v", ins, err)
			} else if !g.Options.StaleAreaAfterGoto {
				r.area = g.current
			}
		case fcl.TOKEN_SOUND:
			g.collab.PlaySound(int(ins.Source), false)
		case fcl.TOKEN_SYNCSND:
			g.collab.PlaySound(int(ins.Source), true)
		case fcl.TOKEN_DELAY:
			g.collab.Delay(int(ins.Source))
		case fcl.TOKEN_REDRAW:
			g.collab.Redraw()
		case fcl.TOKEN_SWAPJET:
			g.ToggleFly()
		case fcl.TOKEN_SPFX:
			g.collab.SpecialEffect(int(ins.Source))
		case fcl.TOKEN_PRINT:
			g.collab.PrintMessage(int(ins.Source), g.Message(int(ins.Source)))
		default:
			log.Debugf("Ignoring opcode %d (%v)", ins.Opcode, ins.Type)
		}
	}
	return executed
}

func (g *Game) bitIndex(ins *fcl.Instruction) (int, bool) {
	index := int(ins.Source) - 1
	if index < 0 || index >= BITS_PER_AREA {
		g.logicError("%v: bit %d out of range", ins, ins.Source)
		return 0, false
	}
	return index, true
}

// resolveObject finds the object an instruction names. Objects missing from the
// target area are looked up in the global library area, and copied into the
// target area when pull is set.
func (g *Game) resolveObject(r *run, ins *fcl.Instruction, pull bool) world.Object {
	area := r.area
	if ins.Qualified {
		if area = g.World.Area(uint16(ins.Additional)); area == nil {
			g.logicError("%v: area %d does not exist", ins, ins.Additional)
			return nil
		}
	}

	id := uint16(ins.Source)
	if obj := area.ObjectWithID(id); obj != nil {
		return obj
	}

	global := g.World.GlobalArea()
	if global == nil || global.ObjectWithID(id) == nil {
		g.logicError("%v: object %d does not exist in area %d", ins, id, area.ID)
		return nil
	}
	if !pull {
		return global.ObjectWithID(id)
	}
	obj, err := area.AddObjectFromArea(id, global)
	if err != nil {
		g.logicError("%v: %v", ins, err)
		return nil
	}
	return obj
}
