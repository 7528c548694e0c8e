package cli

var Reset = "\033[0m"
var RedColour = "\033[31m"
var GreenColour = "\033[32m"
var YellowColour = "\033[33m"
var BlueColour = "\033[34m"
var MagentaColour = "\033[35m"
var CyanColour = "\033[36m"
var GrayColour = "\033[37m"
var WhiteColour = "\033[97m"
