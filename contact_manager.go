package playrho

// contactManager owns the broad-phase and the world contact list.
type contactManager struct {
	broadPhase      BroadPhase
	contactList     *Contact
	contactCount    int
	contactFilter   ContactFilter
	contactListener ContactListener
}

func newContactManager() *contactManager {
	return &contactManager{
		broadPhase:    NewLinearBroadPhase(),
		contactFilter: DefaultContactFilter{},
	}
}

// Destroy removes a contact from the world and both body lists, firing
// EndContact if the contact was touching.
func (mgr *contactManager) Destroy(c *Contact) {
	fixtureA := c.GetFixtureA()
	fixtureB := c.GetFixtureB()
	bodyA := fixtureA.GetBody()
	bodyB := fixtureB.GetBody()

	if mgr.contactListener != nil && c.IsTouching() {
		mgr.contactListener.EndContact(c)
	}

	if c.manifold.PointCount > 0 && !fixtureA.IsSensor() && !fixtureB.IsSensor() {
		bodyA.SetAwake(true)
		bodyB.SetAwake(true)
	}

	// Remove from the world.
	if c.prev != nil {
		c.prev.next = c.next
	}
	if c.next != nil {
		c.next.prev = c.prev
	}
	if c == mgr.contactList {
		mgr.contactList = c.next
	}

	// Remove from body A.
	if c.nodeA.Prev != nil {
		c.nodeA.Prev.Next = c.nodeA.Next
	}
	if c.nodeA.Next != nil {
		c.nodeA.Next.Prev = c.nodeA.Prev
	}
	if &c.nodeA == bodyA.contactList {
		bodyA.contactList = c.nodeA.Next
	}

	// Remove from body B.
	if c.nodeB.Prev != nil {
		c.nodeB.Prev.Next = c.nodeB.Next
	}
	if c.nodeB.Next != nil {
		c.nodeB.Next.Prev = c.nodeB.Prev
	}
	if &c.nodeB == bodyB.contactList {
		bodyB.contactList = c.nodeB.Next
	}

	mgr.contactCount--
}

// Collide is the top level collision call for the time step. All the narrow
// phase collision is processed here for the world contact list. Returns the
// number of contacts updated.
func (mgr *contactManager) Collide() int {
	updated := 0

	c := mgr.contactList
	for c != nil {
		fixtureA := c.GetFixtureA()
		fixtureB := c.GetFixtureB()
		indexA := c.GetChildIndexA()
		indexB := c.GetChildIndexB()
		bodyA := fixtureA.GetBody()
		bodyB := fixtureB.GetBody()

		// Is this contact flagged for filtering?
		if c.flags&contactFilterFlag != 0 {
			// Should these bodies collide?
			if !bodyB.ShouldCollide(bodyA) {
				cNuke := c
				c = cNuke.next
				mgr.Destroy(cNuke)
				continue
			}

			// Check user filtering.
			if mgr.contactFilter != nil && !mgr.contactFilter.ShouldCollide(fixtureA, fixtureB) {
				cNuke := c
				c = cNuke.next
				mgr.Destroy(cNuke)
				continue
			}

			// Clear the filtering flag.
			c.flags &^= contactFilterFlag
		}

		activeA := bodyA.IsAwake() && bodyA.bodyType != StaticBody
		activeB := bodyB.IsAwake() && bodyB.bodyType != StaticBody

		// At least one body must be awake and it must be speedable.
		if !activeA && !activeB {
			c = c.next
			continue
		}

		proxyIdA := fixtureA.proxies[indexA].ProxyId
		proxyIdB := fixtureB.proxies[indexB].ProxyId
		overlap := mgr.broadPhase.TestOverlap(proxyIdA, proxyIdB)

		// Here we destroy contacts that cease to overlap in the
		// broad-phase.
		if !overlap {
			cNuke := c
			c = cNuke.next
			mgr.Destroy(cNuke)
			continue
		}

		// The contact persists.
		c.update(mgr.contactListener)
		updated++
		c = c.next
	}

	return updated
}

// FindNewContacts queries the broad-phase for new fixture pairs. Returns the
// number of contacts added.
func (mgr *contactManager) FindNewContacts() int {
	before := mgr.contactCount
	mgr.broadPhase.UpdatePairs(mgr.AddPair)
	return mgr.contactCount - before
}

// AddPair is the broad-phase pair callback. It creates a contact for the
// fixture pair unless one already exists or filtering rejects the pair.
func (mgr *contactManager) AddPair(proxyUserDataA interface{}, proxyUserDataB interface{}) {
	proxyA := proxyUserDataA.(*FixtureProxy)
	proxyB := proxyUserDataB.(*FixtureProxy)

	fixtureA := proxyA.Fixture
	fixtureB := proxyB.Fixture

	indexA := proxyA.ChildIndex
	indexB := proxyB.ChildIndex

	bodyA := fixtureA.GetBody()
	bodyB := fixtureB.GetBody()

	// Are the fixtures on the same body?
	if bodyA == bodyB {
		return
	}

	// Does a contact already exist?
	for edge := bodyB.GetContactList(); edge != nil; edge = edge.Next {
		if edge.Other == bodyA {
			fA := edge.Contact.GetFixtureA()
			fB := edge.Contact.GetFixtureB()
			iA := edge.Contact.GetChildIndexA()
			iB := edge.Contact.GetChildIndexB()

			if fA == fixtureA && fB == fixtureB && iA == indexA && iB == indexB {
				// A contact already exists.
				return
			}

			if fA == fixtureB && fB == fixtureA && iA == indexB && iB == indexA {
				// A contact already exists.
				return
			}
		}
	}

	// Does a joint override collision? Is at least one body dynamic?
	if !bodyB.ShouldCollide(bodyA) {
		return
	}

	// Check user filtering.
	if mgr.contactFilter != nil && !mgr.contactFilter.ShouldCollide(fixtureA, fixtureB) {
		return
	}

	c := newContact(fixtureA, indexA, fixtureB, indexB)

	// Contact creation may swap fixtures.
	fixtureA = c.GetFixtureA()
	fixtureB = c.GetFixtureB()
	bodyA = fixtureA.GetBody()
	bodyB = fixtureB.GetBody()

	// Insert into the world.
	c.prev = nil
	c.next = mgr.contactList
	if mgr.contactList != nil {
		mgr.contactList.prev = c
	}
	mgr.contactList = c

	// Connect to island graph.

	// Connect to body A.
	c.nodeA.Contact = c
	c.nodeA.Other = bodyB

	c.nodeA.Prev = nil
	c.nodeA.Next = bodyA.contactList
	if bodyA.contactList != nil {
		bodyA.contactList.Prev = &c.nodeA
	}
	bodyA.contactList = &c.nodeA

	// Connect to body B.
	c.nodeB.Contact = c
	c.nodeB.Other = bodyA

	c.nodeB.Prev = nil
	c.nodeB.Next = bodyB.contactList
	if bodyB.contactList != nil {
		bodyB.contactList.Prev = &c.nodeB
	}
	bodyB.contactList = &c.nodeB

	// Wake up the bodies.
	if !fixtureA.IsSensor() && !fixtureB.IsSensor() {
		bodyA.SetAwake(true)
		bodyB.SetAwake(true)
	}

	mgr.contactCount++
}
