package game

// Every peer compiles the same tuning values. There is no negotiation
// message, so a mismatch here desyncs the session silently.
const (
	FieldWidth  = 1000.0
	FieldHeight = 500.0

	PlayerRadius = 15.0
	BallRadius   = 10.0

	PlayerSpeed    = 5.0  // velocity magnitude cap
	PlayerAccel    = 0.5  // fraction of PlayerSpeed added per tick of held input
	PlayerFriction = 0.94 // multiplicative, per tick
	PlayerBounce   = 0.5  // softened elastic exchange between players

	BallFriction    = 0.985 // looser than player friction, rolling feel
	BallStopSpeed   = 0.1   // below this the ball stops dead
	WallRestitution = 0.8

	GoalWidth = 150.0

	KickForce         = 12.0
	KickRange         = 25.0 // beyond touching distance
	KickRangeRemote   = 60.0 // staleness tolerance for remote-initiated kicks
	KickCooldownTicks = 20
	KickVisualTicks   = 15 // cosmetic flag duration
	MinDribbleSpeed   = 0.3
	DribbleKeep       = 0.7
	DribblePush       = 0.4
	BumpImpulse       = 2.0
	SeparationMargin  = 1.0

	TickRate              = 60
	KickoffCountdownTicks = 180 // 3s freeze after start
	GoalCountdownTicks    = 120 // 2s freeze after a goal
)
