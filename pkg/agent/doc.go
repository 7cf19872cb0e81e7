// Package agent defines the in-process surface between chorus demo
// agents and the hosted real-time voice framework.
//
// The heavy lifting (speech recognition, language model turns, speech
// synthesis, voice activity detection) happens inside the hosted
// service. What a demo agent owns is a set of function tools and a
// persona prompt; this package provides the Tool and Session types
// those demos plug into, plus a Registry that dispatches tool calls.
//
// Example usage:
//
//	reg := agent.NewRegistry()
//	reg.Register(merchant.Tools(cfg)...)
//
//	session, err := bridge.New(bridge.Config{URL: url, APIKey: key})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer session.Close()
//
//	session.OnToolCall(func(call agent.ToolCall) {
//	    res := reg.Dispatch(call)
//	    session.SubmitToolResult(res.CallID, res.Result)
//	})
//
//	if err := session.Connect(ctx); err != nil {
//	    log.Fatal(err)
//	}
package agent
