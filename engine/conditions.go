package engine

import (
	"github.com/mogaika/freescape/world"
)

// ExecuteObjectCondition runs the program attached to obj, if any.
func (g *Game) ExecuteObjectCondition(obj world.Object, shot, collided bool) bool {
	if obj == nil || obj.Condition() == nil {
		return false
	}
	return g.ExecuteCode(obj.Condition(), shot, collided)
}

// ExecuteLocalGlobalConditions runs the current area's conditions and then the
// global conditions, each in declaration order.
func (g *Game) ExecuteLocalGlobalConditions(shot, collided bool) bool {
	executed := false
	for _, program := range g.current.Conditions {
		executed = g.ExecuteCode(program, shot, collided) || executed
	}
	for _, program := range g.World.GlobalConditions {
		executed = g.ExecuteCode(program, shot, collided) || executed
	}
	return executed
}

// ExecuteConditions runs the object program, then the area and global conditions.
func (g *Game) ExecuteConditions(obj world.Object, shot, collided bool) bool {
	executed := g.ExecuteObjectCondition(obj, shot, collided)
	return g.ExecuteLocalGlobalConditions(shot, collided) || executed
}

// Shoot fires at an object of the current area.
func (g *Game) Shoot(objectID uint16) bool {
	obj := g.current.ObjectWithID(objectID)
	if obj == nil {
		g.logicError("shot object %d does not exist in area %d", objectID, g.current.ID)
		return false
	}
	if !obj.Flags().Active() {
		return false
	}
	g.ExecuteConditions(obj, true, false)
	return true
}
