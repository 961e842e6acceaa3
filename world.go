package playrho

import "github.com/setanarut/vec"

const (
	worldNewFixtureFlag uint32 = 0x0001
	worldLockedFlag     uint32 = 0x0002
)

// World manages all physics entities, the dynamic simulation, and
// asynchronous queries. Bodies and joints live in intrusive linked lists
// owned by the world.
//
// The world is locked for the duration of Step. Topology mutations made
// from callbacks during a step are ignored.
type World struct {
	flags uint32

	contactManager *contactManager

	bodyList  *Body
	jointList Joint

	bodyCount  int
	jointCount int

	gravity    vec.Vec2
	allowSleep bool

	destructionListener DestructionListener

	solverConf SolverConf

	// Used to compute the time step ratio supporting a variable time step.
	invDt0 float64
}

// NewWorld constructs a world with the given gravity and the default solver
// configuration.
func NewWorld(gravity vec.Vec2) *World {
	return &World{
		contactManager: newContactManager(),
		gravity:        gravity,
		allowSleep:     true,
		solverConf:     DefaultSolverConf(),
	}
}

func (world *World) GetBodyList() *Body {
	return world.bodyList
}

func (world *World) GetJointList() Joint {
	return world.jointList
}

func (world *World) GetContactList() *Contact {
	return world.contactManager.contactList
}

func (world *World) GetBodyCount() int {
	return world.bodyCount
}

func (world *World) GetJointCount() int {
	return world.jointCount
}

func (world *World) GetContactCount() int {
	return world.contactManager.contactCount
}

// GetProxyCount returns the number of broad-phase proxies.
func (world *World) GetProxyCount() int {
	return world.contactManager.broadPhase.GetProxyCount()
}

func (world *World) SetGravity(gravity vec.Vec2) {
	world.gravity = gravity
}

func (world *World) GetGravity() vec.Vec2 {
	return world.gravity
}

// IsLocked reports whether the world is mid-step. Topology mutations are
// ignored while locked.
func (world *World) IsLocked() bool {
	return world.flags&worldLockedFlag == worldLockedFlag
}

func (world *World) GetSolverConf() SolverConf {
	return world.solverConf
}

// SetSolverConf replaces the solver tolerances used by subsequent steps.
// An invalid configuration is ignored.
func (world *World) SetSolverConf(conf SolverConf) {
	if conf.Validate() != nil {
		return
	}
	world.solverConf = conf
}

func (world *World) SetDestructionListener(listener DestructionListener) {
	world.destructionListener = listener
}

// SetContactFilter registers a custom collision filter consulted when a
// candidate pair is found and when contacts are re-filtered.
func (world *World) SetContactFilter(filter ContactFilter) {
	world.contactManager.contactFilter = filter
}

func (world *World) SetContactListener(listener ContactListener) {
	world.contactManager.contactListener = listener
}

// SetAllowSleeping enables or disables sleep management for the whole world.
// Disabling it wakes every body.
func (world *World) SetAllowSleeping(flag bool) {
	if flag == world.allowSleep {
		return
	}

	world.allowSleep = flag
	if !world.allowSleep {
		for b := world.bodyList; b != nil; b = b.next {
			b.SetAwake(true)
		}
	}
}

// CreateBody constructs a body from a definition. It returns nil when the
// world is locked or the definition holds invalid values.
func (world *World) CreateBody(def *BodyDef) *Body {
	if world.IsLocked() {
		return nil
	}
	if !def.isValid() {
		return nil
	}

	b := newBody(def, world)

	// Add to world doubly linked list.
	b.prev = nil
	b.next = world.bodyList
	if world.bodyList != nil {
		world.bodyList.prev = b
	}
	world.bodyList = b
	world.bodyCount++

	return b
}

// DestroyBody removes a body along with its attached fixtures, joints and
// contacts. This is a no-op while the world is locked.
func (world *World) DestroyBody(b *Body) {
	assert(world.bodyCount > 0)
	if world.IsLocked() {
		return
	}

	// Delete the attached joints.
	je := b.jointList
	for je != nil {
		je0 := je
		je = je.Next

		if world.destructionListener != nil {
			world.destructionListener.SayGoodbyeToJoint(je0.Joint)
		}

		world.DestroyJoint(je0.Joint)

		b.jointList = je
	}
	b.jointList = nil

	// Delete the attached contacts.
	ce := b.contactList
	for ce != nil {
		ce0 := ce
		ce = ce.Next
		world.contactManager.Destroy(ce0.Contact)
	}
	b.contactList = nil

	// Delete the attached fixtures. This destroys broad-phase proxies.
	f := b.fixtureList
	for f != nil {
		f0 := f
		f = f.next

		if world.destructionListener != nil {
			world.destructionListener.SayGoodbyeToFixture(f0)
		}

		f0.destroyProxies(world.contactManager.broadPhase)
		f0.destroy()

		b.fixtureList = f
		b.fixtureCount--
	}

	b.fixtureList = nil
	b.fixtureCount = 0

	// Remove from world body list.
	if b.prev != nil {
		b.prev.next = b.next
	}
	if b.next != nil {
		b.next.prev = b.prev
	}
	if b == world.bodyList {
		world.bodyList = b.next
	}

	world.bodyCount--
}

// CreateJoint constructs a joint from a definition and links it into the
// joint graph. It returns nil when the world is locked or the definition
// holds invalid values. Creating a joint does not wake the bodies.
func (world *World) CreateJoint(def JointDefInterface) Joint {
	if world.IsLocked() {
		return nil
	}

	j := def.createJoint()
	if j == nil {
		return nil
	}

	jc := j.core()

	// Connect to the world list.
	jc.prev = nil
	jc.next = world.jointList
	if world.jointList != nil {
		world.jointList.core().prev = j
	}
	world.jointList = j
	world.jointCount++

	bodyA := jc.bodyA
	bodyB := jc.bodyB

	// Connect to the bodies' doubly linked lists.
	jc.edgeA.Joint = j
	jc.edgeA.Other = bodyB
	jc.edgeA.Prev = nil
	jc.edgeA.Next = bodyA.jointList
	if bodyA.jointList != nil {
		bodyA.jointList.Prev = &jc.edgeA
	}
	bodyA.jointList = &jc.edgeA

	jc.edgeB.Joint = j
	jc.edgeB.Other = bodyA
	jc.edgeB.Prev = nil
	jc.edgeB.Next = bodyB.jointList
	if bodyB.jointList != nil {
		bodyB.jointList.Prev = &jc.edgeB
	}
	bodyB.jointList = &jc.edgeB

	// If the joint prevents collisions, then flag any contacts for
	// filtering.
	if !jc.collideConnected {
		for edge := bodyB.GetContactList(); edge != nil; edge = edge.Next {
			if edge.Other == bodyA {
				// Flag the contact for filtering at the next time step
				// (where either body is awake).
				edge.Contact.FlagForFiltering()
			}
		}
	}

	return j
}

// DestroyJoint removes a joint, waking the attached bodies. This is a no-op
// while the world is locked.
func (world *World) DestroyJoint(j Joint) {
	if world.IsLocked() {
		return
	}

	jc := j.core()
	collideConnected := jc.collideConnected

	// Remove from the world list.
	if jc.prev != nil {
		jc.prev.core().next = jc.next
	}
	if jc.next != nil {
		jc.next.core().prev = jc.prev
	}
	if j == world.jointList {
		world.jointList = jc.next
	}

	// Disconnect from the joint graph.
	bodyA := jc.bodyA
	bodyB := jc.bodyB

	// Wake up connected bodies.
	bodyA.SetAwake(true)
	bodyB.SetAwake(true)

	// Remove from body A.
	if jc.edgeA.Prev != nil {
		jc.edgeA.Prev.Next = jc.edgeA.Next
	}
	if jc.edgeA.Next != nil {
		jc.edgeA.Next.Prev = jc.edgeA.Prev
	}
	if &jc.edgeA == bodyA.jointList {
		bodyA.jointList = jc.edgeA.Next
	}
	jc.edgeA.Prev = nil
	jc.edgeA.Next = nil

	// Remove from body B.
	if jc.edgeB.Prev != nil {
		jc.edgeB.Prev.Next = jc.edgeB.Next
	}
	if jc.edgeB.Next != nil {
		jc.edgeB.Next.Prev = jc.edgeB.Prev
	}
	if &jc.edgeB == bodyB.jointList {
		bodyB.jointList = jc.edgeB.Next
	}
	jc.edgeB.Prev = nil
	jc.edgeB.Next = nil

	assert(world.jointCount > 0)
	world.jointCount--

	// If the joint prevented collisions, then flag any contacts for
	// filtering so they may be created now.
	if !collideConnected {
		for edge := bodyB.GetContactList(); edge != nil; edge = edge.Next {
			if edge.Other == bodyA {
				edge.Contact.FlagForFiltering()
			}
		}
	}
}

// Step advances the simulation by conf.Dt. It updates contacts, solves
// velocity and position constraints island by island, and manages sleep. The
// world is locked for the duration of the call.
func (world *World) Step(conf StepConf) StepStats {
	var stats StepStats

	// If new fixtures were added, we need to find the new contacts.
	if world.flags&worldNewFixtureFlag != 0 {
		stats.ContactsAdded += world.contactManager.FindNewContacts()
		world.flags &^= worldNewFixtureFlag
	}

	world.flags |= worldLockedFlag

	step := timeStep{
		Dt:                 conf.Dt,
		VelocityIterations: conf.VelocityIterations,
		PositionIterations: conf.PositionIterations,
		WarmStarting:       conf.WarmStarting,
	}
	if conf.Dt > 0.0 {
		step.InvDt = 1.0 / conf.Dt
	}
	step.DtRatio = world.invDt0 * conf.Dt

	// Update contacts. This is where some contacts are destroyed.
	stats.ContactsUpdated = world.contactManager.Collide()

	// Integrate velocities, solve velocity constraints, and integrate
	// positions.
	if step.Dt > 0.0 {
		world.solve(step, &stats)
	}

	if step.Dt > 0.0 {
		world.invDt0 = step.InvDt
	}

	world.flags &^= worldLockedFlag

	stats.Proxies = world.GetProxyCount()
	return stats
}

// solve finds islands over the contact and joint graphs and runs the
// constraint solver on each.
func (world *World) solve(step timeStep, stats *StepStats) {
	// Size the island for the worst case.
	isl := newIsland(
		world.bodyCount,
		world.contactManager.contactCount,
		world.jointCount,
		world.contactManager.contactListener,
	)

	// Clear all the island flags.
	for b := world.bodyList; b != nil; b = b.next {
		b.flags &^= bodyIslandFlag
	}
	for c := world.contactManager.contactList; c != nil; c = c.next {
		c.flags &^= contactIslandFlag
	}
	for j := world.jointList; j != nil; j = j.GetNext() {
		j.core().islandFlag = false
	}

	// Build and simulate all awake islands.
	stackSize := world.bodyCount
	stack := make([]*Body, stackSize)

	for seed := world.bodyList; seed != nil; seed = seed.next {
		if seed.flags&bodyIslandFlag != 0 {
			continue
		}

		if !seed.IsAwake() || !seed.IsEnabled() {
			continue
		}

		// The seed must be speedable, dynamic or kinematic.
		if !seed.IsSpeedable() {
			continue
		}

		// Reset island and stack.
		isl.clear()
		stackCount := 0
		stack[stackCount] = seed
		stackCount++
		seed.flags |= bodyIslandFlag

		// Perform a depth first search (DFS) on the constraint graph.
		for stackCount > 0 {
			// Grab the next body off the stack and add it to the island.
			stackCount--
			b := stack[stackCount]
			assert(b.IsEnabled())
			isl.addBody(b)

			// Make sure the body is awake (without resetting the sleep
			// timer).
			b.flags |= bodyAwakeFlag

			// To keep islands as small as possible, we don't propagate
			// islands across static bodies.
			if !b.IsSpeedable() {
				continue
			}

			// Search all contacts connected to this body.
			for ce := b.contactList; ce != nil; ce = ce.Next {
				contact := ce.Contact

				// Has this contact already been added to an island?
				if contact.flags&contactIslandFlag != 0 {
					continue
				}

				// Is this contact solid and touching?
				if !contact.IsEnabled() || !contact.IsTouching() {
					continue
				}

				// Skip sensors.
				if contact.fixtureA.isSensor || contact.fixtureB.isSensor {
					continue
				}

				isl.addContact(contact)
				contact.flags |= contactIslandFlag

				other := ce.Other

				// Was the other body already added to this island?
				if other.flags&bodyIslandFlag != 0 {
					continue
				}

				assert(stackCount < stackSize)
				stack[stackCount] = other
				stackCount++
				other.flags |= bodyIslandFlag
			}

			// Search all joints connected to this body.
			for je := b.jointList; je != nil; je = je.Next {
				if je.Joint.core().islandFlag {
					continue
				}

				other := je.Other

				// Don't simulate joints connected to disabled bodies.
				if !other.IsEnabled() {
					continue
				}

				isl.addJoint(je.Joint)
				je.Joint.core().islandFlag = true

				if other.flags&bodyIslandFlag != 0 {
					continue
				}

				assert(stackCount < stackSize)
				stack[stackCount] = other
				stackCount++
				other.flags |= bodyIslandFlag
			}
		}

		stats.BodiesSlept += isl.solve(step, world.gravity, world.solverConf, world.allowSleep)
		stats.IslandCount++

		// Post solve cleanup. Allow static bodies to participate in other
		// islands.
		for i := 0; i < isl.bodyCount; i++ {
			b := isl.bodies[i]
			if !b.IsSpeedable() {
				b.flags &^= bodyIslandFlag
			}
		}
	}

	// Synchronize fixtures, check for out of range bodies.
	for b := world.bodyList; b != nil; b = b.next {
		// If a body was not in an island then it did not move.
		if b.flags&bodyIslandFlag == 0 {
			continue
		}
		if !b.IsSpeedable() {
			continue
		}

		// Update fixtures for the broad-phase.
		b.synchronizeFixtures()
	}

	// Look for new contacts.
	stats.ContactsAdded += world.contactManager.FindNewContacts()
}

// QueryAABB calls the callback for each fixture whose broad-phase proxy
// overlaps the given box. The callback returns false to terminate early.
func (world *World) QueryAABB(callback QueryCallback, aabb AABB) {
	world.contactManager.broadPhase.Query(func(proxyId int) bool {
		proxy := world.contactManager.broadPhase.GetUserData(proxyId).(*FixtureProxy)
		return callback(proxy.Fixture)
	}, aabb)
}

// RayCast casts a ray from point1 to point2 and calls the callback for each
// fixture the ray hits. The callback controls the remaining ray through its
// return value.
func (world *World) RayCast(callback RayCastCallback, point1 vec.Vec2, point2 vec.Vec2) {
	wrapper := func(input RayCastInput, proxyId int) float64 {
		userData := world.contactManager.broadPhase.GetUserData(proxyId)
		proxy := userData.(*FixtureProxy)
		fixture := proxy.Fixture
		index := proxy.ChildIndex

		var output RayCastOutput
		hit := fixture.RayCast(&output, input, index)

		if hit {
			fraction := output.Fraction
			point := input.P1.Scale(1.0 - fraction).Add(input.P2.Scale(fraction))
			return callback(fixture, point, output.Normal, fraction)
		}

		return input.MaxFraction
	}

	input := RayCastInput{
		P1:          point1,
		P2:          point2,
		MaxFraction: 1.0,
	}
	world.contactManager.broadPhase.RayCast(wrapper, input)
}

// ShiftOrigin shifts the world origin, adjusting all body transforms, joints
// and broad-phase data. Useful for keeping coordinates small in large
// worlds. This is a no-op while the world is locked.
func (world *World) ShiftOrigin(newOrigin vec.Vec2) {
	if world.IsLocked() {
		return
	}

	for b := world.bodyList; b != nil; b = b.next {
		b.xf.P = b.xf.P.Sub(newOrigin)
		b.sweep.C0 = b.sweep.C0.Sub(newOrigin)
		b.sweep.C = b.sweep.C.Sub(newOrigin)
	}

	for j := world.jointList; j != nil; j = j.GetNext() {
		j.ShiftOrigin(newOrigin)
	}

	world.contactManager.broadPhase.ShiftOrigin(newOrigin)
}
