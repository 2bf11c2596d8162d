/*
	Project: Academia - school administration dashboard
	Target: Principal & HODs (teachers & students later..)
*/
package academia

/*
TODO: persist sessions (redis store) so a restart does not log everyone out; the limiter store can move with it
TODO: legacy .xls workbooks: convert server-side or keep rejecting with a clear message ??
TODO: roster from the records office instead of seeds/roster.yaml
TODO: attendance & courses sections on the HOD dashboard
*/
