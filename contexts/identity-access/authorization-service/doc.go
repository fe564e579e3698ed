// Package authorization resolves actor capabilities for commission
// operations. The dispatch layer asks it whether an actor may administer
// elections, vote, review ballots, or post announcements.
package authorization
