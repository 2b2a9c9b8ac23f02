// Package maintenance runs scheduled background jobs against the rule store.
//
// The only job today is the integrity check. It re-validates every stored
// rule tree, which catches rows written by older versions or edited by hand,
// and then flushes the SQLite write-ahead log when the store has one.
//
// # Usage
//
//	checker := maintenance.NewIntegrityChecker(st, collector, logger)
//	scheduler := maintenance.NewScheduler(checker, cfg.Maintenance, logger)
//	if err := scheduler.Start(ctx); err != nil {
//	    return err
//	}
//	defer scheduler.Stop()
//
// The schedule is a standard 5-field cron expression, for example
// "*/30 * * * *" for every half hour. An empty schedule disables the job.
package maintenance
