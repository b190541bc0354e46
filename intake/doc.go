// Package intake receives claim transcripts and runs the analysis pipeline
// over them: structured field extraction, classification and retrieval of
// similar adjudicated cases. Submission is decoupled from analysis so a slow
// or failing model never blocks intake; a claim whose analysis failed simply
// stays at status received.
package intake
