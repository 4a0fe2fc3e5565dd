package cache

// Well-known query keys for the console's views. Declared centrally so the
// services and the realtime routes agree on them.

func UsersListKey() Key     { return KeyOf("users", "list") }
func NewUsersKey() Key      { return KeyOf("users", "new") }
func ActiveUsersKey() Key   { return KeyOf("users", "active") }
func PendingAdminsKey() Key { return KeyOf("users", "pending") }
func UserCountKey() Key     { return KeyOf("users", "total") }

func UserDetailsKey(id string) Key   { return KeyOf("users", "details", id) }
func UserDocumentsKey(id string) Key { return KeyOf("users", "documents", id) }

func CarsListKey() Key   { return KeyOf("cars", "list") }
func RecentCarsKey() Key { return KeyOf("cars", "recent") }
func CarCountKey() Key   { return KeyOf("cars", "total") }

func CarDetailsKey(id string) Key { return KeyOf("cars", "details", id) }

func ActiveLeasesKey() Key { return KeyOf("leases", "active") }
func ActivityKey() Key     { return KeyOf("leases", "activity") }
func TransactionsKey() Key { return KeyOf("leases", "transactions") }
