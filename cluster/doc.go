// Package cluster thins point and pose sets by greedy threshold clustering.
//
// CookieCutter walks the input in order and keeps a point only if it lies
// farther than the threshold from every point kept so far. Callers sort by
// score first so that each kept point is the best member of its cluster.
package cluster
