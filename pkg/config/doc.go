/*
Package config loads optional stage files for fixpatch.

	            +-------------+
	            |   Config    |
	            |  (stages)   |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+  +----+-----+  +---+------+
	|   HCL    |  |   YAML   |  |   JSON   |
	|  Parser  |  |  Parser  |  |  Parser  |
	+----------+  +----------+  +----------+

🎯 Purpose:
  - Lets users declare extra fixes without recompiling
  - Picks the format from the file extension through the parser registry
  - Validates every stage before anything runs
  - Builds pipeline stages from the declarations

🔄 Flow:
 1. Load finds a parser with GetParser and reads the file
 2. The parser decodes into Config
 3. Validate rejects incomplete or contradictory stages
 4. BuildStages resolves anchors, windows and payloads into pipeline stages

📝 HCL example:

	target = "MGTools.user.js"
	backup = true

	stage "add-debug-flag" {
	  files = "*.user.js"
	  anchor {
	    contains = "const isDiscordHost"
	  }
	  action         = "insert_after"
	  text_file      = "${config_dir}/debug-flag.js"
	  unless_present = "const DEBUG_FLAG"
	  message        = "Added debug flag"
	}

	stage "drop-legacy-init" {
	  anchor {
	    contains = "function legacyInit"
	    after    = "// ==/UserScript=="
	  }
	  window {
	    before      = 1
	    until       = "}"
	    until_exact = true
	    inclusive   = true
	  }
	  action = "delete"
	}

Expressions can use config_dir and the upper, lower, trimspace, join and
format functions. YAML and JSON use the same field names under a top-level
stages list.
*/
package config
