// Package pose decodes motion frames into renderer configuration vectors.
//
// Two conventions must be pinned for every deployment because getting them
// wrong produces a plausible but wrong pose rather than an error:
//
//   - [Convention]: how the (roll, pitch, yaw) triple composes. [Extrinsic]
//     rotates about the fixed x, then y, then z axes (R = Rz·Ry·Rx), which
//     is also the URDF rpy convention. [Intrinsic] rotates about the moving
//     axes (R = Rx·Ry·Rz).
//   - [Order]: the component layout of the emitted quaternion. [XYZW] is
//     what free-flyer joints expect; [WXYZ] is offered for renderers that
//     put the scalar first.
package pose
