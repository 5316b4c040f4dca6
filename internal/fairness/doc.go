// Package fairness implements the commit-then-reveal protocol used to make
// computer choices verifiable.
//
// A Generator commits to a value by drawing a fresh 256-bit key and publishing
// HMAC(key, value). The value and key stay hidden inside a Pending until
// Reveal is called, so callers cannot disclose them before the counterpart
// has moved:
//
//	p, err := gen.Generate(6)
//	fmt.Printf("HMAC=%s\n", p.Digest())
//	// ... accept the other party's input ...
//	d, err := p.Reveal()
//	fmt.Printf("value=%d KEY=%s\n", d.Value, d.KeyHex())
//
// Anyone holding the disclosure can recompute the digest with Verify.
package fairness
