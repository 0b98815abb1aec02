// Package paths resolves the on-disk layout shared by the framework and its
// channels:
//
//	<base>/                       EFB_DATA_PATH/<user> or ~/.ehforwarderbot
//	  plugins/
//	  <profile>/
//	    config.<ext>
//	    <channel-id>/
//	      config.<ext>
//	<cache>/<profile>/<channel>/  EFB_CACHE_PATH/<user>/... or <base>/.cache/...
//
// Every resolver call reads the environment and the current profile fresh and
// creates the directory it names, so the returned path always exists.
package paths
