// Package ast defines the tree a rule expression compiles to.
//
// A tree is either a single operand node (one comparison) or an operator node
// that combines exactly two subtrees with AND or OR:
//
//	steps>10000 AND bmi<25 OR vip==yes
//
//	           OR
//	          /  \
//	       AND    vip==yes
//	      /   \
//	steps>10000 bmi<25
//
// Nodes are immutable. They can only be created through NewOperand,
// NewOperator (or their Must/And/Or shorthands) and JSON decoding, all of
// which refuse partially filled nodes.
//
// # Persisted Shape
//
// Trees serialize to the tagged JSON form storage layers keep verbatim:
//
//	{"type":"operator","value":"AND",
//	 "left":{"type":"operand","attribute":"steps","operator":">","value":10000},
//	 "right":{"type":"operand","attribute":"bmi","operator":"<","value":25}}
//
// Decoding rebuilds an identical tree, including whether each literal was a
// number or a string.
package ast
