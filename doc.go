// Package cubetrainer is the core of a speedcubing practice timer.
//
// It provides two things: a random scramble generator for the 3x3 cube,
// and a timer state machine with a WCA-style 15 second inspection
// countdown.
//
// # Scrambles
//
//	gen := cubetrainer.NewGenerator(nil)
//	s := gen.Generate(20)
//	fmt.Println(s) // e.g. "R2 U F' D2 L B' ..."
//
// Adjacent moves never turn the same face. Turn modifiers are drawn
// independently.
//
// # Timer
//
// A Timer is Idle, Inspecting or Running. It accepts input only through its
// Request methods and Toggle, and publishes every transition to
// subscribers:
//
//	t := cubetrainer.NewTimer(cubetrainer.WithInspection(true))
//	t.Subscribe(func(ev cubetrainer.Event) {
//	    if ev.Kind == cubetrainer.EventSolve {
//	        fmt.Println("solved in", cubetrainer.FormatSeconds(ev.Solve.Time))
//	    }
//	})
//	t.Toggle() // begin inspection; the timer starts itself after 15s
//	// ...
//	t.Toggle() // stop
//
// Inputs that do not apply to the current state are ignored rather than
// reported as errors.
//
// # Time
//
// The Timer reads time from a clockwork.Clock and drives its countdown and
// display refresh through a Scheduler. Tests use a FakeClock with a
// ManualScheduler to step through inspection without waiting.
package cubetrainer
