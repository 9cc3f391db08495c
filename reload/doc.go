// Package reload watches a game module file and swaps the running game for
// a freshly loaded one when the file changes.
//
// Each Poll is one detection cycle:
//
//	stat source            failure: logged, nothing happens
//	compare mtime          unchanged since the last load: nothing happens
//	stabilize              re-stat every StabilizeInterval until two reads agree
//	stage                  remove the staging file, copy source to staging
//	load                   compile, validate and instantiate the staged copy
//	create                 invoke the factory with the engine capabilities
//	swap                   the new record goes live, the old game is destroyed
//	                       and its module closed
//
// Any failure before the swap leaves the previous game running untouched and
// records no timestamp, so the next cycle tries again. Failures are logged,
// never returned.
package reload
