// Package layout positions the nodes of a family tree.
//
// # Algorithm
//
// [Compute] implements the Buchheim–Walker improvement of the
// Reingold–Tilford tidy tree algorithm, which runs in linear time:
//
//  1. A post-order walk assigns each node a preliminary x relative to its
//     parent. Leaves are placed one separation unit right of their left
//     sibling; parents are centred over the midpoint of their first and last
//     child. Subtree contours are then compared level by level ("apportion")
//     and the right subtree is shifted until no two adjacent nodes are closer
//     than the separation.
//  2. A pre-order walk accumulates the modifiers into final x values.
//  3. Coordinates are scaled by the node step so that one separation unit
//     equals NodeWidth + GapX horizontally and one depth level equals
//     NodeHeight + GapY vertically.
//
// The root always sits at x = 0. Adjacent nodes with the same parent are
// separated by [Config.SiblingSeparation] units, everything else by
// [Config.CousinSeparation].
//
// # Determinism
//
// The placement path iterates slices only. The same tree and config always
// produce bit-identical positions.
//
// # Card geometry
//
// A node's card is NodeWidth × NodeHeight, horizontally centred on x and
// starting CardOffsetY above y. The same geometry is used for bounds, hit
// testing and rendering; see [Config.Card].
package layout
