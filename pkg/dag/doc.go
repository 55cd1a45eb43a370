// Package dag provides the directed graph representation used for lock-file
// dependency data.
//
// # Overview
//
// Graph-shaped lock formats (uv.lock) describe every resolved package plus
// its dependency identifiers. This package provides the structure those
// parsers build: named nodes with metadata, directed edges with tags, and
// adjacency indices for reachability walks.
//
// Unlike a strict DAG, cycles are tolerated: package managers occasionally
// produce them, so [Graph.Reachable] carries an explicit visited set rather
// than relying on acyclicity for termination.
//
// # Basic Usage
//
// Create a new graph with [New], add nodes with [Graph.AddNode], and edges
// with [Graph.AddEdge]. Nodes must have unique IDs, and edges can only
// connect existing nodes:
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "flask", Meta: dag.Metadata{"version": "3.0.0"}})
//	g.AddNode(dag.Node{ID: "werkzeug", Meta: dag.Metadata{"version": "3.0.1"}})
//	g.AddEdge(dag.Edge{From: "flask", To: "werkzeug"})
//
// Query the graph with [Graph.Children], [Graph.Parents], and walk it with
// [Graph.Reachable].
//
// # Metadata
//
// Both nodes and edges support arbitrary metadata via [Metadata] maps. Node
// metadata stores package information (version, marker); edge metadata tags
// root edges with the extra or dev partition that declared them. Metadata
// maps are never nil after creation - empty maps are automatically
// initialized.
//
// # Concurrency
//
// Graph instances are not safe for concurrent use. Callers must synchronize
// access if multiple goroutines read or modify the same graph.
package dag
