// Package mocap provides the core data model for motion playback.
//
// A recorded motion is a [Table] of [Frame] rows. Each frame holds the
// floating base position (x, y, z), the base orientation as Euler angles
// (roll, pitch, yaw) and the joint angles in model order:
//
//	[x y z roll pitch yaw j0 j1 ... jN-1]
//
// A [Configuration] is what a renderer consumes for one displayed pose.
// The Euler triple becomes a unit quaternion, so a configuration is one
// element longer than the frame it was decoded from:
//
//	[x y z qa qb qc qd j0 j1 ... jN-1]
//
// The quaternion component order is fixed by the decoder, never inferred.
package mocap
