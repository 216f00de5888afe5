/*
Package operation patches target files on disk.

	+-------------+      +-------------+      +-------------+
	|    Store    | ---> |  Pipeline   | ---> |    Store    |
	|   (Load)    |      |  (stages)   |      |   (Save)    |
	+-------------+      +------+------+      +-------------+
	                            |
	                     +------+------+
	                     |     Log     |
	                     |  (trace)    |
	                     +-------------+

🎯 Purpose:
  - Loads a target once, runs every stage in memory, writes once
  - Fans many targets out over a bounded worker group
  - Renders line diffs for review

🔄 Flow:
 1. Store.Load reads the target into a line sequence
 2. The pipeline runs each stage against the previous stage's output
 3. Nothing changed: the file is left alone
 4. Dry run or check: the diff is shown and nothing is written
 5. Otherwise an optional .bak copy is made and Store.Save renames the
    new content over the target

A stage error aborts the target before step 3, so a half-patched file is
never written.

🔍 Example:

	op, err := operation.NewApplyOperation("MGTools.user.js", operation.Options{
		Store:  store.New("."),
		Stages: mgtools.Stages(),
	})
	if err != nil {
		return err
	}
	err = operation.NewRunner(1).Run(ctx, op)
*/
package operation
