package combo

// definitionTemplate seeds a freshly created definition file. It carries a
// real init and run script so the new file survives the empty-definition
// cleanup until the user replaces it.
const definitionTemplate = `//Combination definition file.
//Lines starting with // are comments and are ignored.
//The :init section runs once when the combination is loaded.
//The :run section runs when the combination is entered.
:init
combination.setname("Unnamed combination")
:run
return "This combination has no action yet"
`
