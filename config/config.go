package config

import "github.com/tanema/gween/ease"

// NetConfig contains replication and relay configuration values
type NetConfig struct {
	// Rates (per second)
	SendRate       int // Snapshots a participant sends per owned entity
	ServerTickRate int // World snapshots the server broadcasts

	// Limits
	MaxParticipants int // Participants admitted to one room
	MaxPayload      int // Bytes accepted in one StateUpdate payload
	MaxBullets      int // Live bullets a single participant may own

	// Fire relay
	FireRate  float64 // Sustained fire commands per second per participant
	FireBurst int
}

// ReconcileConfig contains receiver-side smoothing configuration
type ReconcileConfig struct {
	SnapDistance float64 // World units; at or beyond this the mirror snaps
	LerpRate     float64 // Exponential approach rate per second
}

// SimConfig contains participant loop configuration
type SimConfig struct {
	FixedStep   float64 // Seconds per fixed physics step
	MaxSubSteps int     // Cap on fixed steps per frame after a stall
}

// TankConfig contains tank movement configuration values
type TankConfig struct {
	// Movement (FreeMovementMotor)
	WalkingSpeed     float64
	Snappiness       float64
	TurningSmoothing float64
	FacingLerpRate   float64 // Body yaw approach rate when a facing is given

	// Dimensions
	CollisionSize float64
	MuzzleOffset  float64 // Distance from tank center to bullet spawn
	MuzzleHeight  float64
}

// BulletConfig contains projectile configuration values
type BulletConfig struct {
	Speed         float64
	MaxRange      float64
	Durability    int // Wall bounces before the bullet explodes
	CollisionSize float64
}

// JoystickConfig contains virtual stick configuration
type JoystickConfig struct {
	MaxOffset       float64 // Screen pixels from stick root to full deflection
	ActivationValue float64 // Deflection ratio that arms the stick
	Curve           ease.TweenFunc
}

// CameraConfig contains follow camera configuration
type CameraConfig struct {
	HeightOffset  float64
	LookOffset    float64
	ForwardOffset float64
	Smoothness    float64
	FieldOfView   float64 // Degrees
	Pitch         float64 // Degrees below the horizon
	Yaw           float64 // Degrees around Up; the camera never turns
	ScreenWidth   int
	ScreenHeight  int
}

// EffectConfig contains local-only effect durations (seconds)
type EffectConfig struct {
	ExplosionDuration float64
	MuzzleDuration    float64
}

// BotConfig contains headless driver configuration
type BotConfig struct {
	Seed         int64   // Fixed seed for reproducible runs
	TurnInterval float64 // Seconds between heading changes
	ShotInterval float64 // Seconds between shots
	Wander       float64 // Chance a heading change stops instead of drives

	// Line of sight checks (TMX pixels)
	LOSStepSize  float64
	LOSCheckSize float64
}

var Net NetConfig
var Reconcile ReconcileConfig
var Sim SimConfig
var Tank TankConfig
var Bullet BulletConfig
var Joystick JoystickConfig
var Camera CameraConfig
var Effect EffectConfig
var Bot BotConfig

func init() {
	// Net Config
	Net = NetConfig{
		SendRate:       20,
		ServerTickRate: 20,

		MaxParticipants: 2,
		MaxPayload:      256,
		MaxBullets:      8,

		FireRate:  4,
		FireBurst: 2,
	}

	// Reconcile Config
	Reconcile = ReconcileConfig{
		SnapDistance: 4.0,
		LerpRate:     5.0,
	}

	// Sim Config
	Sim = SimConfig{
		FixedStep:   1.0 / 60.0,
		MaxSubSteps: 8,
	}

	// Tank Config
	Tank = TankConfig{
		WalkingSpeed:     5.0,
		Snappiness:       50.0,
		TurningSmoothing: 0.3,
		FacingLerpRate:   20.0,

		CollisionSize: 1.5,
		MuzzleOffset:  1.2,
		MuzzleHeight:  0.6,
	}

	// Bullet Config
	Bullet = BulletConfig{
		Speed:         10.0,
		MaxRange:      100.0,
		Durability:    1,
		CollisionSize: 0.3,
	}

	// Joystick Config
	Joystick = JoystickConfig{
		MaxOffset:       300.0,
		ActivationValue: 0.5,
		Curve:           ease.OutQuad,
	}

	// Camera Config
	Camera = CameraConfig{
		HeightOffset:  10.0,
		LookOffset:    3.0,
		ForwardOffset: 3.0,
		Smoothness:    8.0,
		FieldOfView:   60.0,
		Pitch:         60.0,
		Yaw:           180.0,
		ScreenWidth:   1280,
		ScreenHeight:  720,
	}

	// Effect Config
	Effect = EffectConfig{
		ExplosionDuration: 0.6,
		MuzzleDuration:    0.15,
	}

	// Bot Config
	Bot = BotConfig{
		Seed:         42,
		TurnInterval: 1.5,
		ShotInterval: 1.0,
		Wander:       0.2,

		LOSStepSize:  8.0,
		LOSCheckSize: 2.0,
	}
}
