package logger

import "testing"

func TestOperationFromSQL(t *testing.T) {
	cases := map[string]string{
		"SELECT id FROM bookings":                   "SELECT",
		"  insert into earned_rewards (id) values (1)": "INSERT",
		"WITH x AS (SELECT 1) UPDATE client_profiles SET total_xp = 1": "SELECT",
		"DELETE FROM loyalty_levels":                "DELETE",
		"":                                          "UNKNOWN",
		"VACUUM":                                    "UNKNOWN",
	}
	for sql, want := range cases {
		if got := operationFromSQL(sql); got != want {
			t.Fatalf("operationFromSQL(%q) = %q, want %q", sql, got, want)
		}
	}
}
