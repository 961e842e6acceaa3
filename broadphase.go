package playrho

import (
	"sort"

	"github.com/setanarut/vec"
)

// BroadPhaseAddPairCallback receives the user data of two proxies whose fat
// AABBs began overlapping.
type BroadPhaseAddPairCallback func(userDataA interface{}, userDataB interface{})

// BroadPhaseQueryCallback receives overlapping proxy ids during a query.
// Return false to terminate the query early.
type BroadPhaseQueryCallback func(proxyId int) bool

// BroadPhaseRayCastCallback is invoked for each proxy whose fat AABB the ray
// hits. It returns the new maximum fraction, 0 to terminate the cast, or a
// negative value to continue unclipped.
type BroadPhaseRayCastCallback func(input RayCastInput, proxyId int) float64

const nullProxy = -1

// BroadPhase is the pair-management collaborator of the world. Proxies are
// created per fixture child with a fattened AABB; moved proxies are buffered
// and UpdatePairs reports every new overlapping pair once per step.
type BroadPhase interface {
	CreateProxy(aabb AABB, userData interface{}) int
	DestroyProxy(proxyId int)

	// MoveProxy updates a proxy with a new tight AABB and the displacement
	// predicted for it. The proxy is rebuffered only when it escaped its
	// fattened bounds.
	MoveProxy(proxyId int, aabb AABB, displacement vec.Vec2)

	// TouchProxy buffers a proxy for pair processing without moving it.
	TouchProxy(proxyId int)

	GetFatAABB(proxyId int) AABB
	GetUserData(proxyId int) interface{}
	TestOverlap(proxyIdA, proxyIdB int) bool
	GetProxyCount() int

	// UpdatePairs reports candidate pairs involving buffered proxies and
	// clears the move buffer.
	UpdatePairs(addPairCallback BroadPhaseAddPairCallback)

	Query(callback BroadPhaseQueryCallback, aabb AABB)
	RayCast(callback BroadPhaseRayCastCallback, input RayCastInput)
	ShiftOrigin(newOrigin vec.Vec2)
}

type broadPhasePair struct {
	ProxyIdA int
	ProxyIdB int
}

func pairLessThan(pair1, pair2 broadPhasePair) bool {
	if pair1.ProxyIdA < pair2.ProxyIdA {
		return true
	}
	if pair1.ProxyIdA == pair2.ProxyIdA {
		return pair1.ProxyIdB < pair2.ProxyIdB
	}
	return false
}

type broadPhaseProxy struct {
	fatAABB  AABB
	userData interface{}
	active   bool
}

// LinearBroadPhase is the default BroadPhase: a flat proxy store whose pair
// update scans buffered movers against all active proxies. Queries and ray
// casts walk the store linearly. It favors simplicity over asymptotics and
// keeps the fat-AABB buffering contract, so resting proxies cost nothing
// between pair updates.
type LinearBroadPhase struct {
	proxies    []broadPhaseProxy
	freeList   []int
	proxyCount int

	moveBuffer []int
	pairBuffer []broadPhasePair
}

func NewLinearBroadPhase() *LinearBroadPhase {
	return &LinearBroadPhase{
		moveBuffer: make([]int, 0, 16),
		pairBuffer: make([]broadPhasePair, 0, 16),
	}
}

func (bp *LinearBroadPhase) CreateProxy(aabb AABB, userData interface{}) int {
	r := vec.Vec2{X: aabbExtension, Y: aabbExtension}
	fat := AABB{
		LowerBound: aabb.LowerBound.Sub(r),
		UpperBound: aabb.UpperBound.Add(r),
	}

	var proxyId int
	if n := len(bp.freeList); n > 0 {
		proxyId = bp.freeList[n-1]
		bp.freeList = bp.freeList[:n-1]
		bp.proxies[proxyId] = broadPhaseProxy{fatAABB: fat, userData: userData, active: true}
	} else {
		proxyId = len(bp.proxies)
		bp.proxies = append(bp.proxies, broadPhaseProxy{fatAABB: fat, userData: userData, active: true})
	}

	bp.proxyCount++
	bp.bufferMove(proxyId)
	return proxyId
}

func (bp *LinearBroadPhase) DestroyProxy(proxyId int) {
	assert(bp.proxies[proxyId].active)
	bp.unBufferMove(proxyId)
	bp.proxies[proxyId] = broadPhaseProxy{}
	bp.freeList = append(bp.freeList, proxyId)
	bp.proxyCount--
}

func (bp *LinearBroadPhase) MoveProxy(proxyId int, aabb AABB, displacement vec.Vec2) {
	assert(bp.proxies[proxyId].active)

	if bp.proxies[proxyId].fatAABB.Contains(aabb) {
		// Still inside the fat bounds; no pair update needed.
		return
	}

	// Extend the AABB and predict motion.
	r := vec.Vec2{X: aabbExtension, Y: aabbExtension}
	fat := AABB{
		LowerBound: aabb.LowerBound.Sub(r),
		UpperBound: aabb.UpperBound.Add(r),
	}

	d := displacement.Scale(aabbMultiplier)
	if d.X < 0.0 {
		fat.LowerBound.X += d.X
	} else {
		fat.UpperBound.X += d.X
	}
	if d.Y < 0.0 {
		fat.LowerBound.Y += d.Y
	} else {
		fat.UpperBound.Y += d.Y
	}

	bp.proxies[proxyId].fatAABB = fat
	bp.bufferMove(proxyId)
}

func (bp *LinearBroadPhase) TouchProxy(proxyId int) {
	bp.bufferMove(proxyId)
}

func (bp *LinearBroadPhase) GetFatAABB(proxyId int) AABB {
	return bp.proxies[proxyId].fatAABB
}

func (bp *LinearBroadPhase) GetUserData(proxyId int) interface{} {
	return bp.proxies[proxyId].userData
}

func (bp *LinearBroadPhase) TestOverlap(proxyIdA, proxyIdB int) bool {
	return TestOverlapBoundingBoxes(
		bp.proxies[proxyIdA].fatAABB,
		bp.proxies[proxyIdB].fatAABB,
	)
}

func (bp *LinearBroadPhase) GetProxyCount() int {
	return bp.proxyCount
}

func (bp *LinearBroadPhase) bufferMove(proxyId int) {
	bp.moveBuffer = append(bp.moveBuffer, proxyId)
}

func (bp *LinearBroadPhase) unBufferMove(proxyId int) {
	for i := range bp.moveBuffer {
		if bp.moveBuffer[i] == proxyId {
			bp.moveBuffer[i] = nullProxy
		}
	}
}

func (bp *LinearBroadPhase) UpdatePairs(addPairCallback BroadPhaseAddPairCallback) {
	bp.pairBuffer = bp.pairBuffer[:0]

	// Scan every moved proxy against all active proxies.
	for _, queryId := range bp.moveBuffer {
		if queryId == nullProxy {
			continue
		}

		// We use the fat AABB so that we don't fail to create a pair
		// that may touch later.
		fatAABB := bp.proxies[queryId].fatAABB

		for otherId := range bp.proxies {
			// A proxy cannot form a pair with itself.
			if otherId == queryId || !bp.proxies[otherId].active {
				continue
			}
			if !TestOverlapBoundingBoxes(fatAABB, bp.proxies[otherId].fatAABB) {
				continue
			}

			pair := broadPhasePair{ProxyIdA: queryId, ProxyIdB: otherId}
			if pair.ProxyIdA > pair.ProxyIdB {
				pair.ProxyIdA, pair.ProxyIdB = pair.ProxyIdB, pair.ProxyIdA
			}
			bp.pairBuffer = append(bp.pairBuffer, pair)
		}
	}

	// Reset move buffer
	bp.moveBuffer = bp.moveBuffer[:0]

	// Sort the pair buffer to expose duplicates.
	sort.Slice(bp.pairBuffer, func(i, j int) bool {
		return pairLessThan(bp.pairBuffer[i], bp.pairBuffer[j])
	})

	// Send the pairs back to the client, skipping duplicates.
	i := 0
	for i < len(bp.pairBuffer) {
		primaryPair := bp.pairBuffer[i]
		userDataA := bp.proxies[primaryPair.ProxyIdA].userData
		userDataB := bp.proxies[primaryPair.ProxyIdB].userData

		addPairCallback(userDataA, userDataB)
		i++

		for i < len(bp.pairBuffer) {
			pair := bp.pairBuffer[i]
			if pair.ProxyIdA != primaryPair.ProxyIdA || pair.ProxyIdB != primaryPair.ProxyIdB {
				break
			}
			i++
		}
	}
}

func (bp *LinearBroadPhase) Query(callback BroadPhaseQueryCallback, aabb AABB) {
	for proxyId := range bp.proxies {
		if !bp.proxies[proxyId].active {
			continue
		}
		if TestOverlapBoundingBoxes(aabb, bp.proxies[proxyId].fatAABB) {
			if !callback(proxyId) {
				return
			}
		}
	}
}

func (bp *LinearBroadPhase) RayCast(callback BroadPhaseRayCastCallback, input RayCastInput) {
	maxFraction := input.MaxFraction

	for proxyId := range bp.proxies {
		if !bp.proxies[proxyId].active {
			continue
		}

		subInput := input
		subInput.MaxFraction = maxFraction

		var output RayCastOutput
		if !bp.proxies[proxyId].fatAABB.RayCast(&output, subInput) {
			continue
		}

		value := callback(subInput, proxyId)
		if value == 0.0 {
			// The client has terminated the ray cast.
			return
		}
		if value > 0.0 {
			maxFraction = value
		}
	}
}

func (bp *LinearBroadPhase) ShiftOrigin(newOrigin vec.Vec2) {
	for proxyId := range bp.proxies {
		if !bp.proxies[proxyId].active {
			continue
		}
		p := &bp.proxies[proxyId]
		p.fatAABB.LowerBound = p.fatAABB.LowerBound.Sub(newOrigin)
		p.fatAABB.UpperBound = p.fatAABB.UpperBound.Sub(newOrigin)
	}
}
